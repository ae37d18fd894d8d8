package billing

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountPercent is a sales-side discount expressed as a percentage (0–100).
type DiscountPercent decimal.Decimal

// DiscountAmount is a purchase-side discount expressed as an absolute
// currency amount. The two discount kinds share a column name upstream but
// never share a unit; keep them apart at the type level.
type DiscountAmount decimal.Decimal

// LineItem is raw line input as collected from a form: a product reference,
// a quantity, an optional rate override and an optional expiry date.
type LineItem struct {
	Product    ProductRef
	Qty        decimal.Decimal
	Rate       *decimal.Decimal // nil → use catalog rate
	Unit       string           // optional override, purchases only
	ExpiryDate *time.Time       // nil → now at computation time
}

// LineTotals is the computed view of a line item.
type LineTotals struct {
	Product      string          `json:"product"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	GSTRate      int             `json:"gst_rate"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	GST          decimal.Decimal `json:"gst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
	ExpiryDate   time.Time       `json:"expiry_date"`
}

// InvoiceTotals are sales-document totals with a percentage discount.
type InvoiceTotals struct {
	TotalInvoiceValue decimal.Decimal `json:"total_invoice_value"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	Total             decimal.Decimal `json:"total"`
}

// PurchaseTotals are purchase-document totals with an absolute discount.
// The three per-line components are summed separately alongside the total.
type PurchaseTotals struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	GST          decimal.Decimal `json:"gst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
	Total        decimal.Decimal `json:"total"`
}

// TaxBucket is one GST-rate slice of a document, for rate-wise reporting.
type TaxBucket struct {
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
}

// Calculator computes line and document totals against an injected catalog.
// It is pure: identical inputs always produce identical outputs.
type Calculator struct {
	catalog Catalog
}

func NewCalculator(catalog Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// GSTAmount computes round2(amount * rate / 100). Negative amounts or rates
// are clamped to zero rather than rejected; malformed upstream data must not
// abort a totals recomputation. The clamp is logged so it stays visible.
func GSTAmount(amount decimal.Decimal, gstRate int) decimal.Decimal {
	if amount.IsNegative() || gstRate < 0 {
		log.Printf("WARNING: negative GST input clamped to zero (amount=%s rate=%d)", amount, gstRate)
		return decimal.Zero
	}
	rate := decimal.NewFromInt(int64(gstRate))
	return round2(amount.Mul(rate).Div(hundred))
}

// ComputeLineTotals resolves the product and computes taxable value, GST and
// invoice value for one line, each rounded to 2dp independently.
func (c *Calculator) ComputeLineTotals(item LineItem) (LineTotals, error) {
	product, err := Resolve(item.Product, c.catalog)
	if err != nil {
		return LineTotals{}, err
	}

	rate := product.Rate
	if item.Rate != nil {
		rate = *item.Rate
	}

	unit := product.Unit
	if item.Unit != "" {
		unit = item.Unit
	}

	expiry := time.Now()
	if item.ExpiryDate != nil {
		expiry = *item.ExpiryDate
	}

	taxable := round2(item.Qty.Mul(rate))
	gst := GSTAmount(taxable, product.GSTRate)
	return LineTotals{
		Product:      product.Name,
		Qty:          item.Qty,
		Rate:         rate,
		GSTRate:      product.GSTRate,
		Unit:         unit,
		HSNCode:      product.HSNCode,
		TaxableValue: taxable,
		GST:          gst,
		InvoiceValue: round2(taxable.Add(gst)),
		ExpiryDate:   expiry,
	}, nil
}

// ComputeAllLineTotals computes every line or none: the first unresolvable
// product aborts the whole computation.
func (c *Calculator) ComputeAllLineTotals(items []LineItem) ([]LineTotals, error) {
	lines := make([]LineTotals, 0, len(items))
	for _, item := range items {
		lt, err := c.ComputeLineTotals(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, lt)
	}
	return lines, nil
}

// ComputeInvoiceTotals aggregates sales lines and applies a percentage discount.
func ComputeInvoiceTotals(lines []LineTotals, discount DiscountPercent) InvoiceTotals {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.InvoiceValue)
	}
	total = round2(total)
	discountAmount := round2(total.Mul(decimal.Decimal(discount)).Div(hundred))
	return InvoiceTotals{
		TotalInvoiceValue: total,
		DiscountAmount:    discountAmount,
		Total:             round2(total.Sub(discountAmount)),
	}
}

// ComputePurchaseTotals aggregates purchase lines, summing the three per-line
// components separately, and subtracts an absolute discount.
func ComputePurchaseTotals(lines []LineTotals, discount DiscountAmount) PurchaseTotals {
	var taxable, gst, invoiceValue decimal.Decimal
	for _, l := range lines {
		taxable = taxable.Add(l.TaxableValue)
		gst = gst.Add(l.GST)
		invoiceValue = invoiceValue.Add(l.InvoiceValue)
	}
	taxable = round2(taxable)
	gst = round2(gst)
	invoiceValue = round2(invoiceValue)
	return PurchaseTotals{
		TaxableValue: taxable,
		GST:          gst,
		InvoiceValue: invoiceValue,
		Total:        round2(invoiceValue.Sub(decimal.Decimal(discount))),
	}
}

// GSTBreakdown groups line contributions by GST rate. Only rates present in
// the lines appear as keys; a 0% rate gets its own bucket.
func GSTBreakdown(lines []LineTotals) map[int]TaxBucket {
	buckets := make(map[int]TaxBucket)
	for _, l := range lines {
		b := buckets[l.GSTRate]
		b.TaxableAmount = round2(b.TaxableAmount.Add(l.TaxableValue))
		b.GSTAmount = round2(b.GSTAmount.Add(l.GST))
		buckets[l.GSTRate] = b
	}
	return buckets
}

// SplitCGSTSGST halves a GST amount into central and state components for
// intrastate supply. The halves are rounded independently, so their sum may
// differ from the input by up to 0.01; that asymmetry is intentional and
// matches how the amounts are reported.
func SplitCGSTSGST(gst decimal.Decimal) (cgst, sgst decimal.Decimal) {
	half := gst.Div(two)
	return round2(half), round2(half)
}

// IGST is the interstate tax amount: the full GST, rounded to 2dp.
func IGST(gst decimal.Decimal) decimal.Decimal {
	return round2(gst)
}
