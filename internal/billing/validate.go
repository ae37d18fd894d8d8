package billing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationResult lists every violation found in a document draft, so a
// form can surface all of them at once. Validators never return an error.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// InvoiceDraft is a sales invoice as assembled from form input, before
// totals are computed.
type InvoiceDraft struct {
	CustomerName string
	Items        []LineItem
	Discount     *DiscountPercent
}

// PurchaseDraft is a purchase document draft with an absolute discount.
type PurchaseDraft struct {
	VendorName string
	Items      []LineItem
	Discount   *DiscountAmount
}

var (
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
)

// IsValidGSTRate reports whether rate is one of the legal GST slabs.
func IsValidGSTRate(rate int) bool {
	switch rate {
	case 0, 5, 12, 18, 28:
		return true
	}
	return false
}

// IsValidHSNCode reports whether code is a 4–8 digit HSN code.
func IsValidHSNCode(code string) bool {
	return hsnPattern.MatchString(code)
}

// IsValidGSTNumber reports whether gstin is a well-formed 15-character GST
// registration number. The field is optional: an empty value is valid.
func IsValidGSTNumber(gstin string) bool {
	if gstin == "" {
		return true
	}
	return gstinPattern.MatchString(gstin)
}

// ValidateInvoice checks a sales invoice draft against the catalog.
func ValidateInvoice(d InvoiceDraft, catalog Catalog) ValidationResult {
	var errs []string

	if strings.TrimSpace(d.CustomerName) == "" {
		errs = append(errs, "customer name is required")
	}
	if len(d.Items) == 0 {
		errs = append(errs, "invoice must have at least one item")
	}
	for i, item := range d.Items {
		errs = append(errs, validateCommonItem(i, item, catalog)...)
		if item.ExpiryDate == nil {
			errs = append(errs, fmt.Sprintf("item %d: expiry date is required", i+1))
		}
	}
	if d.Discount != nil {
		pct := decimal.Decimal(*d.Discount)
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			errs = append(errs, "discount must be between 0 and 100 percent")
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ValidatePurchase checks a purchase draft against the catalog.
func ValidatePurchase(d PurchaseDraft, catalog Catalog) ValidationResult {
	var errs []string

	if strings.TrimSpace(d.VendorName) == "" {
		errs = append(errs, "vendor name is required")
	}
	if len(d.Items) == 0 {
		errs = append(errs, "purchase must have at least one item")
	}
	for i, item := range d.Items {
		errs = append(errs, validateCommonItem(i, item, catalog)...)
		if item.Rate == nil || !item.Rate.IsPositive() {
			errs = append(errs, fmt.Sprintf("item %d: rate must be greater than zero", i+1))
		}
		if strings.TrimSpace(item.Unit) == "" {
			errs = append(errs, fmt.Sprintf("item %d: unit is required", i+1))
		}
		if item.ExpiryDate == nil {
			errs = append(errs, fmt.Sprintf("item %d: expiry date is required", i+1))
		}
	}
	if d.Discount != nil && decimal.Decimal(*d.Discount).IsNegative() {
		errs = append(errs, "discount must not be negative")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func validateCommonItem(i int, item LineItem, catalog Catalog) []string {
	var errs []string
	if item.Product.IsZero() {
		errs = append(errs, fmt.Sprintf("item %d: product is required", i+1))
	} else if _, err := Resolve(item.Product, catalog); err != nil {
		errs = append(errs, fmt.Sprintf("item %d: %v", i+1, err))
	}
	if !item.Qty.IsPositive() {
		errs = append(errs, fmt.Sprintf("item %d: quantity must be greater than zero", i+1))
	}
	return errs
}
