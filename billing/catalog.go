package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is one catalog entry as seen by invoice computation. Prices are carried
// as decimals so intermediate math keeps full precision; rounding happens only
// when an amount leaves this package.
type Service struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	Duration int
	Category string
	IsActive bool
}

// Catalog is an immutable snapshot of the salon's services, loaded once per
// invoice operation. Invoice computation only ever reads from it; later changes
// to the live catalog are not observed until a new snapshot is taken.
type Catalog map[uuid.UUID]Service

// NewCatalog builds a snapshot from catalog rows. Duplicate ids keep the last
// row, matching a fresh read of the services table.
func NewCatalog(services []Service) Catalog {
	cat := make(Catalog, len(services))
	for _, svc := range services {
		cat[svc.ID] = svc
	}
	return cat
}

// Lookup returns the service for id, or a ServiceNotFoundError when the id is
// absent from the snapshot.
func (c Catalog) Lookup(id uuid.UUID) (Service, error) {
	svc, ok := c[id]
	if !ok {
		return Service{}, &ServiceNotFoundError{ServiceID: id}
	}
	return svc, nil
}
