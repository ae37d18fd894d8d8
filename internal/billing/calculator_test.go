package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-backend/internal/billing"
)

func testCatalog() *billing.MemoryCatalog {
	return billing.NewCatalog([]billing.ProductDetails{
		{Name: "dosa", Rate: decimal.NewFromInt(25), GSTRate: 5, Unit: "plate", HSNCode: "2106"},
		{Name: "idli", Rate: decimal.NewFromInt(10), GSTRate: 5, Unit: "plate", HSNCode: "2106"},
		{Name: "ghee", Rate: decimal.NewFromInt(450), GSTRate: 12, Unit: "kg", HSNCode: "0405"},
		{Name: "salt", Rate: decimal.NewFromInt(20), GSTRate: 0, Unit: "kg", HSNCode: "2501"},
	})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeLineTotals_CatalogRate(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	// dosa: rate 25, gst 5%, qty 10 with rate omitted
	lt, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByName("dosa"),
		Qty:     decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "250.00", lt.TaxableValue.StringFixed(2))
	assert.Equal(t, "12.50", lt.GST.StringFixed(2))
	assert.Equal(t, "262.50", lt.InvoiceValue.StringFixed(2))
	assert.Equal(t, 5, lt.GSTRate)
	assert.Equal(t, "plate", lt.Unit)
	assert.Equal(t, "2106", lt.HSNCode)
}

func TestComputeLineTotals_HydratedProduct(t *testing.T) {
	// Hydrated product object, no catalog lookup: rate 300, gst 12%, qty 2
	calc := billing.NewCalculator(nil)

	lt, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByProduct(billing.ProductDetails{
			Name: "mixer", Rate: decimal.NewFromInt(300), GSTRate: 12, Unit: "pcs", HSNCode: "8509",
		}),
		Qty:  decimal.NewFromInt(2),
		Rate: decPtr("300"),
	})
	require.NoError(t, err)

	assert.Equal(t, "600.00", lt.TaxableValue.StringFixed(2))
	assert.Equal(t, "72.00", lt.GST.StringFixed(2))
	assert.Equal(t, "672.00", lt.InvoiceValue.StringFixed(2))
}

func TestComputeLineTotals_RateOverride(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	lt, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByName("dosa"),
		Qty:     decimal.NewFromInt(4),
		Rate:    decPtr("30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "120.00", lt.TaxableValue.StringFixed(2))
}

func TestComputeLineTotals_InvalidProduct(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	_, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByName("unobtainium"),
		Qty:     decimal.NewFromInt(1),
	})
	require.Error(t, err)

	var ipe *billing.InvalidProductError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "unobtainium", ipe.Ref)
}

func TestComputeLineTotals_ZeroBoundaries(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	t.Run("zero_qty", func(t *testing.T) {
		lt, err := calc.ComputeLineTotals(billing.LineItem{
			Product: billing.ByName("dosa"),
			Qty:     decimal.Zero,
		})
		require.NoError(t, err)
		assert.True(t, lt.TaxableValue.IsZero())
		assert.True(t, lt.GST.IsZero())
		assert.True(t, lt.InvoiceValue.IsZero())
	})

	t.Run("zero_rate", func(t *testing.T) {
		lt, err := calc.ComputeLineTotals(billing.LineItem{
			Product: billing.ByName("dosa"),
			Qty:     decimal.NewFromInt(3),
			Rate:    decPtr("0"),
		})
		require.NoError(t, err)
		assert.True(t, lt.InvoiceValue.IsZero())
	})

	t.Run("zero_gst_rate", func(t *testing.T) {
		lt, err := calc.ComputeLineTotals(billing.LineItem{
			Product: billing.ByName("salt"),
			Qty:     decimal.NewFromInt(2),
		})
		require.NoError(t, err)
		assert.Equal(t, "40.00", lt.TaxableValue.StringFixed(2))
		assert.True(t, lt.GST.IsZero())
	})
}

func TestComputeLineTotals_Invariants(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	// invoiceValue == round2(taxable + gst) for fractional quantities too
	lt, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByName("ghee"),
		Qty:     dec("0.333"),
	})
	require.NoError(t, err)
	assert.True(t, lt.InvoiceValue.Equal(lt.TaxableValue.Add(lt.GST).Round(2)))
	assert.True(t, lt.TaxableValue.Equal(dec("0.333").Mul(decimal.NewFromInt(450)).Round(2)))
}

func TestComputeLineTotals_Idempotent(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	item := billing.LineItem{
		Product:    billing.ByName("dosa"),
		Qty:        decimal.NewFromInt(7),
		ExpiryDate: &expiry,
	}

	a, err := calc.ComputeLineTotals(item)
	require.NoError(t, err)
	b, err := calc.ComputeLineTotals(item)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeLineTotals_ExpiryDefaultsToNow(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	before := time.Now()
	lt, err := calc.ComputeLineTotals(billing.LineItem{
		Product: billing.ByName("dosa"),
		Qty:     decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.False(t, lt.ExpiryDate.Before(before))
	assert.False(t, lt.ExpiryDate.After(time.Now()))
}

func TestGSTAmount(t *testing.T) {
	t.Run("standard_rates", func(t *testing.T) {
		amount := decimal.NewFromInt(1000)
		for rate, want := range map[int]string{0: "0.00", 5: "50.00", 12: "120.00", 18: "180.00", 28: "280.00"} {
			assert.Equal(t, want, billing.GSTAmount(amount, rate).StringFixed(2), "rate %d", rate)
		}
	})

	t.Run("negative_amount_clamped", func(t *testing.T) {
		assert.True(t, billing.GSTAmount(decimal.NewFromInt(-100), 18).IsZero())
	})

	t.Run("negative_rate_clamped", func(t *testing.T) {
		assert.True(t, billing.GSTAmount(decimal.NewFromInt(100), -5).IsZero())
	})

	t.Run("half_rounds_away_from_zero", func(t *testing.T) {
		// 250 * 5% = 12.50 exactly; 46.725-style cases are covered in document totals
		assert.Equal(t, "12.50", billing.GSTAmount(decimal.NewFromInt(250), 5).StringFixed(2))
	})
}

func TestComputeInvoiceTotals(t *testing.T) {
	lines := []billing.LineTotals{
		{GSTRate: 5, TaxableValue: dec("250.00"), GST: dec("12.50"), InvoiceValue: dec("262.50")},
		{GSTRate: 12, TaxableValue: dec("600.00"), GST: dec("72.00"), InvoiceValue: dec("672.00")},
	}

	totals := billing.ComputeInvoiceTotals(lines, billing.DiscountPercent(decimal.NewFromInt(5)))

	assert.Equal(t, "934.50", totals.TotalInvoiceValue.StringFixed(2))
	// 934.50 * 0.05 = 46.725, half away from zero → 46.73
	assert.Equal(t, "46.73", totals.DiscountAmount.StringFixed(2))
	assert.Equal(t, "887.77", totals.Total.StringFixed(2))
}

func TestComputeInvoiceTotals_NoDiscount(t *testing.T) {
	lines := []billing.LineTotals{
		{InvoiceValue: dec("262.50")},
	}
	totals := billing.ComputeInvoiceTotals(lines, billing.DiscountPercent(decimal.Zero))
	assert.Equal(t, "262.50", totals.Total.StringFixed(2))
	assert.True(t, totals.DiscountAmount.IsZero())
}

func TestComputePurchaseTotals(t *testing.T) {
	lines := []billing.LineTotals{
		{TaxableValue: dec("250.00"), GST: dec("12.50"), InvoiceValue: dec("262.50")},
		{TaxableValue: dec("600.00"), GST: dec("72.00"), InvoiceValue: dec("672.00")},
	}

	totals := billing.ComputePurchaseTotals(lines, billing.DiscountAmount(dec("34.50")))

	assert.Equal(t, "850.00", totals.TaxableValue.StringFixed(2))
	assert.Equal(t, "84.50", totals.GST.StringFixed(2))
	assert.Equal(t, "934.50", totals.InvoiceValue.StringFixed(2))
	assert.Equal(t, "900.00", totals.Total.StringFixed(2))
}

func TestGSTBreakdown(t *testing.T) {
	lines := []billing.LineTotals{
		{GSTRate: 5, TaxableValue: dec("250.00"), GST: dec("12.50")},
		{GSTRate: 12, TaxableValue: dec("600.00"), GST: dec("72.00")},
		{GSTRate: 5, TaxableValue: dec("100.00"), GST: dec("5.00")},
		{GSTRate: 0, TaxableValue: dec("40.00"), GST: dec("0.00")},
	}

	buckets := billing.GSTBreakdown(lines)

	require.Len(t, buckets, 3)
	assert.Equal(t, "350.00", buckets[5].TaxableAmount.StringFixed(2))
	assert.Equal(t, "17.50", buckets[5].GSTAmount.StringFixed(2))
	assert.Equal(t, "600.00", buckets[12].TaxableAmount.StringFixed(2))
	assert.Equal(t, "72.00", buckets[12].GSTAmount.StringFixed(2))

	// 0% items get a bucket of their own
	assert.Equal(t, "40.00", buckets[0].TaxableAmount.StringFixed(2))
	assert.True(t, buckets[0].GSTAmount.IsZero())

	// rates absent from the items never appear as keys
	_, ok := buckets[18]
	assert.False(t, ok)
}

func TestSplitCGSTSGST(t *testing.T) {
	t.Run("even_split", func(t *testing.T) {
		cgst, sgst := billing.SplitCGSTSGST(dec("12.50"))
		assert.Equal(t, "6.25", cgst.StringFixed(2))
		assert.Equal(t, "6.25", sgst.StringFixed(2))
	})

	t.Run("independent_rounding_may_drift", func(t *testing.T) {
		// 0.05 / 2 = 0.025 rounds to 0.03 on both halves; the sum exceeds
		// the input by a cent. That mirrors how the two lines are reported.
		cgst, sgst := billing.SplitCGSTSGST(dec("0.05"))
		assert.Equal(t, "0.03", cgst.StringFixed(2))
		assert.Equal(t, "0.03", sgst.StringFixed(2))
		assert.Equal(t, "0.06", cgst.Add(sgst).StringFixed(2))
	})
}

func TestIGST(t *testing.T) {
	assert.Equal(t, "12.50", billing.IGST(dec("12.50")).StringFixed(2))
	assert.Equal(t, "12.35", billing.IGST(dec("12.345")).StringFixed(2))
}

func TestComputeAllLineTotals_AbortsOnUnknownProduct(t *testing.T) {
	calc := billing.NewCalculator(testCatalog())

	lines, err := calc.ComputeAllLineTotals([]billing.LineItem{
		{Product: billing.ByName("dosa"), Qty: decimal.NewFromInt(1)},
		{Product: billing.ByName("unknown"), Qty: decimal.NewFromInt(1)},
	})
	require.Error(t, err)
	assert.Nil(t, lines)
}
