package service

import (
	"context"
	"fmt"
	"time"

	"erp-backend/internal/billing"
	"erp-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// LineItemRequest is raw line input from a form. A product is referenced
// either by name (resolved against the catalog) or by an already-hydrated
// payload which is trusted as-is.
type LineItemRequest struct {
	Product        string          `json:"product"`
	ProductDetails *ProductPayload `json:"product_details"`
	Qty            string          `json:"qty" binding:"required"` // decimal string
	Rate           string          `json:"rate"`                   // optional, defaults to catalog rate
	Unit           string          `json:"unit"`
	ExpiryDate     string          `json:"expiry_date"` // YYYY-MM-DD
}

// ProductPayload is hydrated product master data supplied by the caller.
type ProductPayload struct {
	Name    string `json:"name"`
	Rate    string `json:"rate"`
	GSTRate int    `json:"gst_rate"`
	Unit    string `json:"unit"`
	HSNCode string `json:"hsn_code"`
}

// LineTotalsResponse is the computed view of one line.
type LineTotalsResponse struct {
	Product      string `json:"product"`
	Qty          string `json:"qty"`
	Rate         string `json:"rate"`
	GSTRate      int    `json:"gst_rate"`
	Unit         string `json:"unit"`
	HSNCode      string `json:"hsn_code"`
	TaxableValue string `json:"taxable_value"`
	GST          string `json:"gst"`
	InvoiceValue string `json:"invoice_value"`
	ExpiryDate   string `json:"expiry_date"`
}

func toLineItem(req LineItemRequest) (billing.LineItem, error) {
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		return billing.LineItem{}, fmt.Errorf("invalid qty %q: %w", req.Qty, err)
	}

	var rate *decimal.Decimal
	if req.Rate != "" {
		r, err := decimal.NewFromString(req.Rate)
		if err != nil {
			return billing.LineItem{}, fmt.Errorf("invalid rate %q: %w", req.Rate, err)
		}
		rate = &r
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return billing.LineItem{}, fmt.Errorf("invalid expiry_date %q (expected YYYY-MM-DD): %w", req.ExpiryDate, err)
		}
		expiry = &t
	}

	var ref billing.ProductRef
	if req.ProductDetails != nil {
		pRate, err := decimal.NewFromString(req.ProductDetails.Rate)
		if err != nil {
			return billing.LineItem{}, fmt.Errorf("invalid product rate %q: %w", req.ProductDetails.Rate, err)
		}
		ref = billing.ByProduct(billing.ProductDetails{
			Name:    req.ProductDetails.Name,
			Rate:    pRate,
			GSTRate: req.ProductDetails.GSTRate,
			Unit:    req.ProductDetails.Unit,
			HSNCode: req.ProductDetails.HSNCode,
		})
	} else {
		ref = billing.ByName(req.Product)
	}

	return billing.LineItem{
		Product:    ref,
		Qty:        qty,
		Rate:       rate,
		Unit:       req.Unit,
		ExpiryDate: expiry,
	}, nil
}

func toLineItems(reqs []LineItemRequest) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, 0, len(reqs))
	for i, r := range reqs {
		item, err := toLineItem(r)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func toLineTotalsResponse(l billing.LineTotals) LineTotalsResponse {
	return LineTotalsResponse{
		Product:      l.Product,
		Qty:          l.Qty.String(),
		Rate:         l.Rate.StringFixed(2),
		GSTRate:      l.GSTRate,
		Unit:         l.Unit,
		HSNCode:      l.HSNCode,
		TaxableValue: l.TaxableValue.StringFixed(2),
		GST:          l.GST.StringFixed(2),
		InvoiceValue: l.InvoiceValue.StringFixed(2),
		ExpiryDate:   l.ExpiryDate.Format("2006-01-02"),
	}
}

// loadCatalog builds an immutable billing catalog from the product master.
// Each document computation runs against one snapshot.
func loadCatalog(ctx context.Context, productRepo repository.ProductRepository) (*billing.MemoryCatalog, error) {
	products, err := productRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}
	details := make([]billing.ProductDetails, 0, len(products))
	for _, p := range products {
		details = append(details, billing.ProductDetails{
			Name:    p.Name,
			Rate:    p.Rate,
			GSTRate: p.GSTRate,
			Unit:    p.Unit,
			HSNCode: p.HSNCode,
		})
	}
	return billing.NewCatalog(details), nil
}
