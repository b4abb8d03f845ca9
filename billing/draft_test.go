package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftReselectOverwrites(t *testing.T) {
	serviceA := uuid.New()
	emp := uuid.New()

	d := NewDraft()
	d.Select(LineItemInput{ServiceID: serviceA, Quantity: 2})
	d.Select(LineItemInput{ServiceID: serviceA, Quantity: 3, EmployeeID: &emp})

	items := d.Items()
	require.Len(t, items, 1, "re-selecting a service must overwrite, not append")
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].EmployeeID)
	assert.Equal(t, emp, *items[0].EmployeeID)
}

func TestDraftPreservesSelectionOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	d := NewDraft()
	d.Select(LineItemInput{ServiceID: a, Quantity: 1})
	d.Select(LineItemInput{ServiceID: b, Quantity: 1})
	d.Select(LineItemInput{ServiceID: c, Quantity: 1})
	d.Select(LineItemInput{ServiceID: a, Quantity: 5}) // update keeps original position

	items := d.Items()
	require.Len(t, items, 3)
	assert.Equal(t, a, items[0].ServiceID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, b, items[1].ServiceID)
	assert.Equal(t, c, items[2].ServiceID)
}

func TestDraftDeselect(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	d := NewDraft()
	d.Select(LineItemInput{ServiceID: a, Quantity: 1})
	d.Select(LineItemInput{ServiceID: b, Quantity: 2})
	d.Deselect(a)
	d.Deselect(uuid.New()) // unknown id is a no-op

	items := d.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b, items[0].ServiceID)
	assert.Equal(t, 1, d.Len())
}

func TestCollapseItemsLastWriteWins(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	collapsed := CollapseItems([]LineItemInput{
		{ServiceID: a, Quantity: 2},
		{ServiceID: b, Quantity: 1},
		{ServiceID: a, Quantity: 3},
	})

	require.Len(t, collapsed, 2)
	assert.Equal(t, a, collapsed[0].ServiceID)
	assert.Equal(t, 3, collapsed[0].Quantity)
	assert.Equal(t, b, collapsed[1].ServiceID)
}
