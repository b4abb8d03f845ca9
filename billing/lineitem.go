package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one raw service selection from an invoice form: which
// service, how many, and optionally which employee performed it.
type LineItemInput struct {
	ServiceID  uuid.UUID
	Quantity   int
	EmployeeID *uuid.UUID
}

// LineItem is a resolved selection. ServiceName and UnitPrice are snapshots
// taken at resolution time, so catalog price changes never retroactively alter
// an invoice that has already been computed.
type LineItem struct {
	ServiceID    uuid.UUID
	ServiceName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	EmployeeID   *uuid.UUID
	EmployeeName string
}

// ResolveLineItem resolves a single selection against the catalog snapshot.
// A non-positive quantity falls back to 1 (invalid quantity entry never becomes
// 0 or negative). An unknown service id returns a ServiceNotFoundError together
// with a zero-amount item carrying the requested id, so callers can keep the
// running total computable instead of aborting.
func ResolveLineItem(catalog Catalog, input LineItemInput) (LineItem, error) {
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}

	svc, err := catalog.Lookup(input.ServiceID)
	if err != nil {
		return LineItem{ServiceID: input.ServiceID, Quantity: qty, EmployeeID: input.EmployeeID}, err
	}

	unit := svc.Price
	return LineItem{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Quantity:    qty,
		UnitPrice:   unit,
		TotalPrice:  unit.Mul(decimal.NewFromInt(int64(qty))),
		EmployeeID:  input.EmployeeID,
	}, nil
}

// ResolveLineItems resolves every input in order. Items whose service is gone
// from the snapshot are skipped (contributing zero) and their errors collected;
// resolution never fails as a whole.
func ResolveLineItems(catalog Catalog, inputs []LineItemInput) ([]LineItem, []error) {
	items := make([]LineItem, 0, len(inputs))
	var errs []error
	for _, in := range inputs {
		item, err := ResolveLineItem(catalog, in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

// ValidateDraft checks that a draft is submittable: a customer must be selected
// and at least one line item present. Returns a ValidationError otherwise; the
// caller must not touch persistence until this passes.
func ValidateDraft(customerID uuid.UUID, items []LineItemInput) error {
	if customerID == uuid.Nil {
		return &ValidationError{Field: "customerId", Message: "no customer selected"}
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one service must be selected"}
	}
	return nil
}
