package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-backend/internal/billing"
)

func TestCatalogLookup(t *testing.T) {
	catalog := testCatalog()

	t.Run("exact_name", func(t *testing.T) {
		p, err := catalog.Lookup("dosa")
		require.NoError(t, err)
		assert.Equal(t, "dosa", p.Name)
		assert.True(t, p.Rate.Equal(decimal.NewFromInt(25)))
	})

	t.Run("case_insensitive", func(t *testing.T) {
		exact, err := catalog.Lookup("ghee")
		require.NoError(t, err)
		upper, err := catalog.Lookup("GHEE")
		require.NoError(t, err)
		mixed, err := catalog.Lookup("GhEe")
		require.NoError(t, err)
		assert.Equal(t, exact, upper)
		assert.Equal(t, exact, mixed)
	})

	t.Run("whitespace_trimmed", func(t *testing.T) {
		p, err := catalog.Lookup("  dosa ")
		require.NoError(t, err)
		assert.Equal(t, "dosa", p.Name)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := catalog.Lookup("paneer")
		var ipe *billing.InvalidProductError
		require.ErrorAs(t, err, &ipe)
		assert.Equal(t, "paneer", ipe.Ref)
	})
}

func TestCatalogOverwriteOnDuplicateName(t *testing.T) {
	catalog := billing.NewCatalog([]billing.ProductDetails{
		{Name: "Tea", Rate: decimal.NewFromInt(10), GSTRate: 5},
		{Name: "tea", Rate: decimal.NewFromInt(12), GSTRate: 5},
	})

	assert.Equal(t, 1, catalog.Len())
	p, err := catalog.Lookup("TEA")
	require.NoError(t, err)
	assert.True(t, p.Rate.Equal(decimal.NewFromInt(12)))
}

func TestResolve(t *testing.T) {
	catalog := testCatalog()

	t.Run("by_name", func(t *testing.T) {
		p, err := billing.Resolve(billing.ByName("idli"), catalog)
		require.NoError(t, err)
		assert.Equal(t, "idli", p.Name)
	})

	t.Run("by_product_skips_catalog", func(t *testing.T) {
		hydrated := billing.ProductDetails{
			Name: "not-in-catalog", Rate: decimal.NewFromInt(99), GSTRate: 18,
		}
		p, err := billing.Resolve(billing.ByProduct(hydrated), catalog)
		require.NoError(t, err)
		assert.Equal(t, hydrated, p)
	})

	t.Run("nil_catalog_by_name", func(t *testing.T) {
		_, err := billing.Resolve(billing.ByName("dosa"), nil)
		var ipe *billing.InvalidProductError
		assert.ErrorAs(t, err, &ipe)
	})
}

func TestProductRefIsZero(t *testing.T) {
	assert.True(t, billing.ProductRef{}.IsZero())
	assert.False(t, billing.ByName("x").IsZero())
	assert.False(t, billing.ByProduct(billing.ProductDetails{Name: "x"}).IsZero())
}
