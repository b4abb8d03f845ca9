package billing

import (
	"fmt"

	"github.com/google/uuid"
)

// ServiceNotFoundError is returned when a line item references a service that is
// missing from the catalog snapshot (deleted or deactivated mid-session). It is
// recoverable: callers treat the item as contributing nothing to the subtotal.
type ServiceNotFoundError struct {
	ServiceID uuid.UUID
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service not found in catalog: %s", e.ServiceID)
}

// ValidationError blocks an invoice draft from being persisted. It is raised
// before any database write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
