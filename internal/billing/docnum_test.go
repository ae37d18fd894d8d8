package billing_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-backend/internal/billing"
)

func TestGenerateUniqueNumber(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("format", func(t *testing.T) {
		no := billing.GenerateUniqueNumber("INV", at)
		assert.Regexp(t, regexp.MustCompile(`^INV-2025-01-15-[0-9A-F]{8}$`), no)
	})

	t.Run("purchase_prefix", func(t *testing.T) {
		no := billing.GenerateUniqueNumber(billing.PurchasePrefix, at)
		assert.True(t, strings.HasPrefix(no, "PUR-2025-01-15-"))
	})

	t.Run("distinct_across_calls", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			no := billing.GenerateUniqueNumber("INV", at)
			require.False(t, seen[no], "duplicate number %s", no)
			seen[no] = true
		}
	})
}

func TestSequenceNumber(t *testing.T) {
	at := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PUR-2025-01-15-007", billing.SequenceNumber("PUR", at, 7))
	assert.Equal(t, "INV-2025-01-15-000", billing.SequenceNumber("INV", at, 0))
	// the pad is a minimum width, not a cap
	assert.Equal(t, "INV-2025-01-15-1234", billing.SequenceNumber("INV", at, 1234))
}

func TestGenerateVendorCode(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("format", func(t *testing.T) {
		code := billing.GenerateVendorCode(at)
		assert.Regexp(t, regexp.MustCompile(`^VEND\d{9}$`), code)
	})

	t.Run("timestamp_component_is_stable", func(t *testing.T) {
		a := billing.GenerateVendorCode(at)
		b := billing.GenerateVendorCode(at)
		// same instant: first 6 digits match, random tail may differ
		assert.Equal(t, a[:10], b[:10])
	})
}
