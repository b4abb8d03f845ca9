package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() (Catalog, uuid.UUID, uuid.UUID) {
	s1 := uuid.New()
	s2 := uuid.New()
	cat := NewCatalog([]Service{
		{ID: s1, Name: "Hair Cut & Styling", Price: decimal.NewFromInt(500), Duration: 45, Category: "Hair", IsActive: true},
		{ID: s2, Name: "Beard Trim", Price: decimal.NewFromInt(200), Duration: 15, Category: "Grooming", IsActive: true},
	})
	return cat, s1, s2
}

func TestComputeTotalsFormula(t *testing.T) {
	cat, s1, s2 := testCatalog()

	items, errs := ResolveLineItems(cat, []LineItemInput{
		{ServiceID: s1, Quantity: 2},
		{ServiceID: s2, Quantity: 1},
	})
	require.Empty(t, errs)
	require.Len(t, items, 2)

	totals := ComputeTotals(items, decimal.NewFromInt(100), decimal.NewFromInt(10))

	// subtotal = 500*2 + 200 = 1200; total = 1200 - 100 + 1200*0.10 = 1220
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1200)), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.DiscountedTotal.Equal(decimal.NewFromInt(1100)), "discounted = %s", totals.DiscountedTotal)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(1220)), "total = %s", totals.Total)
}

func TestComputeTotalsTaxOnSubtotalBeforeDiscount(t *testing.T) {
	items := []LineItem{{TotalPrice: decimal.NewFromInt(1000)}}

	totals := ComputeTotals(items, decimal.NewFromInt(500), decimal.NewFromInt(20))

	// Tax applies to the full 1000, not the discounted 500:
	// 1000 - 500 + 1000*0.20 = 700 (tax-after-discount would give 600).
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(700)), "total = %s", totals.Total)
}

func TestComputeTotalsClampsNegativeInputs(t *testing.T) {
	items := []LineItem{{TotalPrice: decimal.NewFromInt(300)}}

	totals := ComputeTotals(items, decimal.NewFromInt(-50), decimal.NewFromInt(-10))

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(300)), "negative discount and tax must be treated as 0, got %s", totals.Total)
}

func TestComputeTotalsAllowsDiscountExceedingSubtotal(t *testing.T) {
	items := []LineItem{{TotalPrice: decimal.NewFromInt(200)}}

	totals := ComputeTotals(items, decimal.NewFromInt(500), decimal.Zero)

	assert.True(t, totals.Total.Equal(decimal.NewFromInt(-300)), "discount over subtotal is not capped, got %s", totals.Total)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, decimal.Zero, decimal.NewFromInt(18))

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsFractionalPrecision(t *testing.T) {
	items := []LineItem{
		{TotalPrice: decimal.RequireFromString("99.99")},
		{TotalPrice: decimal.RequireFromString("0.03")},
	}

	totals := ComputeTotals(items, decimal.Zero, decimal.RequireFromString("7.5"))

	// 100.02 + 100.02*0.075 = 107.5215 exactly; rounding happens only via Amount.
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("107.5215")), "total = %s", totals.Total)
	assert.Equal(t, 107.52, Amount(totals.Total))
}
