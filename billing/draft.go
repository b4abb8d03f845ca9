package billing

import "github.com/google/uuid"

// Draft models an in-progress invoice form session. Selections are keyed by
// service id: selecting a service that is already in the draft overwrites its
// quantity and employee instead of appending a second row. First-selection
// order is preserved so the submitted item list matches what the form showed.
//
// This one-active-row-per-service rule applies to the draft only; a persisted
// invoice keeps whatever item list it was created with.
type Draft struct {
	CustomerID uuid.UUID
	order      []uuid.UUID
	selections map[uuid.UUID]LineItemInput
}

func NewDraft() *Draft {
	return &Draft{selections: make(map[uuid.UUID]LineItemInput)}
}

// Select adds or replaces the selection for input's service.
func (d *Draft) Select(input LineItemInput) {
	if _, exists := d.selections[input.ServiceID]; !exists {
		d.order = append(d.order, input.ServiceID)
	}
	d.selections[input.ServiceID] = input
}

// Deselect removes a service from the draft. Removing a service that is not
// selected is a no-op.
func (d *Draft) Deselect(serviceID uuid.UUID) {
	if _, exists := d.selections[serviceID]; !exists {
		return
	}
	delete(d.selections, serviceID)
	for i, id := range d.order {
		if id == serviceID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Items returns the current selections in first-selection order.
func (d *Draft) Items() []LineItemInput {
	items := make([]LineItemInput, 0, len(d.order))
	for _, id := range d.order {
		items = append(items, d.selections[id])
	}
	return items
}

// Len reports how many services are currently selected.
func (d *Draft) Len() int {
	return len(d.selections)
}

// CollapseItems applies draft semantics to an already-flattened item list:
// duplicate service ids collapse to a single row holding the last quantity and
// employee seen, positioned where the service first appeared. Used when a
// client submits its raw selection log instead of a deduplicated list.
func CollapseItems(inputs []LineItemInput) []LineItemInput {
	d := NewDraft()
	for _, in := range inputs {
		d.Select(in)
	}
	return d.Items()
}
