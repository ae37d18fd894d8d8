package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductDetails is the canonical master data for a sellable item.
type ProductDetails struct {
	Name    string          `json:"name"`
	Rate    decimal.Decimal `json:"rate"`
	GSTRate int             `json:"gst_rate"` // one of 0, 5, 12, 18, 28
	Unit    string          `json:"unit"`
	HSNCode string          `json:"hsn_code"`
}

// ProductRef identifies a product either by name (resolved against a catalog)
// or by an already-hydrated ProductDetails that is trusted as-is.
type ProductRef struct {
	name    string
	details *ProductDetails
}

// ByName references a product by its catalog name (case-insensitive).
func ByName(name string) ProductRef {
	return ProductRef{name: name}
}

// ByProduct references a product by hydrated master data; no lookup is performed.
func ByProduct(d ProductDetails) ProductRef {
	return ProductRef{name: d.Name, details: &d}
}

// Name returns the raw reference name, for error messages and validation.
func (r ProductRef) Name() string { return r.name }

// IsZero reports whether the reference carries neither a name nor details.
func (r ProductRef) IsZero() bool { return r.name == "" && r.details == nil }

// InvalidProductError signals a product reference that could not be resolved.
type InvalidProductError struct {
	Ref string
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product: %q not found in catalog", e.Ref)
}

// Catalog resolves product names to master data. Implementations operate on an
// immutable snapshot; Lookup must be side-effect free.
type Catalog interface {
	Lookup(name string) (ProductDetails, error)
}

// MemoryCatalog is an in-memory Catalog snapshot. Keys are normalized to
// lowercase at insertion, so lookups are case-insensitive by construction.
type MemoryCatalog struct {
	entries map[string]ProductDetails
}

// NewCatalog builds a MemoryCatalog from a set of products. Later entries with
// the same (case-folded) name overwrite earlier ones.
func NewCatalog(products []ProductDetails) *MemoryCatalog {
	entries := make(map[string]ProductDetails, len(products))
	for _, p := range products {
		entries[catalogKey(p.Name)] = p
	}
	return &MemoryCatalog{entries: entries}
}

func (c *MemoryCatalog) Lookup(name string) (ProductDetails, error) {
	if p, ok := c.entries[catalogKey(name)]; ok {
		return p, nil
	}
	return ProductDetails{}, &InvalidProductError{Ref: name}
}

// Len returns the number of products in the snapshot.
func (c *MemoryCatalog) Len() int { return len(c.entries) }

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve turns a ProductRef into ProductDetails. Hydrated references are
// trusted without a lookup; name references go through the catalog.
func Resolve(ref ProductRef, catalog Catalog) (ProductDetails, error) {
	if ref.details != nil {
		return *ref.details, nil
	}
	if catalog == nil {
		return ProductDetails{}, &InvalidProductError{Ref: ref.name}
	}
	return catalog.Lookup(ref.name)
}
