package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PurchasePrefix is the fixed document-number prefix for purchases; invoices
// use the company code instead.
const PurchasePrefix = "PUR"

// GenerateUniqueNumber produces a document number of the form
//
//	{prefix}-{YYYY-MM-DD}-{RANDOM8}
//
// where RANDOM8 is the first 8 characters of an uppercased random UUID.
// Uniqueness is probabilistic: the persistence layer keeps the number under a
// unique index and regenerates on the rare conflict.
func GenerateUniqueNumber(prefix string, at time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("2006-01-02"), token)
}

// SequenceNumber produces the legacy zero-padded daily sequence format
//
//	{prefix}-{YYYY-MM-DD}-{seq:03d}
//
// Deprecated: kept for documents issued before the random-suffix scheme; new
// documents should use GenerateUniqueNumber.
func SequenceNumber(prefix string, at time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, at.Format("2006-01-02"), seq)
}

// GenerateVendorCode produces a vendor code of the form
//
//	VEND{6-digit-timestamp-suffix}{3-digit-random}
//
// Vendor codes are short and not date-readable, unlike document numbers.
func GenerateVendorCode(at time.Time) string {
	ts := at.Unix() % 1000000
	rnd := uuid.New().ID() % 1000
	return fmt.Sprintf("VEND%06d%03d", ts, rnd)
}
