package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLineItemSnapshotsPrice(t *testing.T) {
	cat, s1, _ := testCatalog()

	item, err := ResolveLineItem(cat, LineItemInput{ServiceID: s1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Hair Cut & Styling", item.ServiceName)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(1000)))

	// A later catalog price change must not touch the resolved item.
	svc := cat[s1]
	svc.Price = decimal.NewFromInt(999)
	cat[s1] = svc

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(500)), "unit price must stay frozen")
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(1000)), "item total must stay frozen")
}

func TestResolveLineItemQuantityFallsBackToOne(t *testing.T) {
	cat, s1, _ := testCatalog()

	for _, qty := range []int{0, -3} {
		item, err := ResolveLineItem(cat, LineItemInput{ServiceID: s1, Quantity: qty})
		require.NoError(t, err)
		assert.Equal(t, 1, item.Quantity, "quantity %d must fall back to 1", qty)
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(500)))
	}
}

func TestResolveLineItemTotalIsQuantityTimesUnitPrice(t *testing.T) {
	cat, _, s2 := testCatalog()

	item, err := ResolveLineItem(cat, LineItemInput{ServiceID: s2, Quantity: 7})
	require.NoError(t, err)
	assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
}

func TestResolveLineItemUnknownService(t *testing.T) {
	cat, _, _ := testCatalog()
	missing := uuid.New()

	item, err := ResolveLineItem(cat, LineItemInput{ServiceID: missing, Quantity: 2})

	var nf *ServiceNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, missing, nf.ServiceID)
	assert.True(t, item.TotalPrice.IsZero(), "unresolved item must contribute nothing")
}

func TestResolveLineItemsSkipsStaleServices(t *testing.T) {
	cat, s1, _ := testCatalog()

	items, errs := ResolveLineItems(cat, []LineItemInput{
		{ServiceID: s1, Quantity: 1},
		{ServiceID: uuid.New(), Quantity: 3}, // deleted mid-session
	})

	require.Len(t, errs, 1)
	require.Len(t, items, 1)

	totals := ComputeTotals(items, decimal.Zero, decimal.Zero)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(500)), "stale service contributes 0, got %s", totals.Subtotal)
}

func TestValidateDraft(t *testing.T) {
	_, s1, _ := testCatalog()
	items := []LineItemInput{{ServiceID: s1, Quantity: 1}}

	var ve *ValidationError

	err := ValidateDraft(uuid.Nil, items)
	require.True(t, errors.As(err, &ve), "missing customer must be a ValidationError")

	err = ValidateDraft(uuid.New(), nil)
	require.True(t, errors.As(err, &ve), "empty item list must be a ValidationError")

	assert.NoError(t, ValidateDraft(uuid.New(), items))
}
