package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"salonflow-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServiceDefaultsToActive(t *testing.T) {
	f := setupInvoiceFixture(t)

	w := f.do(http.MethodPost, "/api/services", `{"name":"Facial","price":800,"duration":60,"category":"Skin"}`)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	var created models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.IsActive)
	assert.Equal(t, 800.0, created.Price)
}

func TestDeletedServiceGoesStaleInPreview(t *testing.T) {
	f := setupInvoiceFixture(t)

	w := f.do(http.MethodDelete, "/api/services/"+f.trim.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	// The draft still holds the deleted service; the preview degrades it to a
	// zero contribution instead of failing.
	body := fmt.Sprintf(
		`{"items":[{"serviceId":%q,"quantity":1},{"serviceId":%q,"quantity":1}]}`,
		f.cut.ID.String(), f.trim.ID.String(),
	)
	w = f.do(http.MethodPost, "/api/invoices/preview", body)
	require.Equal(t, http.StatusOK, w.Code)

	var preview struct {
		Subtotal        float64  `json:"subtotal"`
		StaleServiceIDs []string `json:"staleServiceIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, 500.0, preview.Subtotal)
	require.Len(t, preview.StaleServiceIDs, 1)
	assert.Equal(t, f.trim.ID.String(), preview.StaleServiceIDs[0])
}

func TestCreateCustomerRejectsDuplicatePhone(t *testing.T) {
	f := setupInvoiceFixture(t)

	w := f.do(http.MethodPost, "/api/customers",
		fmt.Sprintf(`{"name":"Another Priya","phone":%q}`, f.customer.Phone))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCustomerRejectsInvalidPhone(t *testing.T) {
	f := setupInvoiceFixture(t)

	w := f.do(http.MethodPost, "/api/customers", `{"name":"Walk In","phone":"abc123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
