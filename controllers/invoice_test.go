package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type invoiceFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	salonID  uuid.UUID
	customer models.Customer
	cut      models.Service
	trim     models.Service
	employee models.Employee
}

func setupInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Salon{}, &models.Customer{}, &models.Employee{},
		&models.Service{}, &models.Invoice{}, &models.InvoiceItem{},
	))
	config.DB = db

	f := &invoiceFixture{db: db, salonID: uuid.New()}

	f.customer = models.Customer{SalonID: f.salonID, Name: "Priya Sharma", Phone: "+919876543210", IsActive: true}
	require.NoError(t, db.Create(&f.customer).Error)

	f.cut = models.Service{SalonID: f.salonID, Name: "Hair Cut & Styling", Price: 500, Duration: 45, Category: "Hair", IsActive: true}
	require.NoError(t, db.Create(&f.cut).Error)
	f.trim = models.Service{SalonID: f.salonID, Name: "Beard Trim", Price: 200, Duration: 15, Category: "Grooming", IsActive: true}
	require.NoError(t, db.Create(&f.trim).Error)

	f.employee = models.Employee{SalonID: f.salonID, Name: "Asha", Role: "stylist", IsActive: true}
	require.NoError(t, db.Create(&f.employee).Error)

	sess := session.Session{UserID: uuid.New(), SalonID: f.salonID, Role: "owner"}
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		session.Attach(c, sess)
		c.Next()
	})
	api.POST("/invoices", CreateInvoice)
	api.POST("/invoices/preview", PreviewInvoiceTotals)
	api.GET("/invoices/:id", GetInvoice)
	api.PUT("/invoices/:id", UpdateInvoice)
	api.PATCH("/invoices/:id/payment-status", CyclePaymentStatus)
	api.DELETE("/invoices/:id", DeleteInvoice)
	api.POST("/customers", CreateCustomer)
	api.POST("/services", CreateService)
	api.DELETE("/services/:id", DeleteService)
	f.router = r

	return f
}

func (f *invoiceFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *invoiceFixture) createInvoice(t *testing.T, body string) models.Invoice {
	t.Helper()
	w := f.do(http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())
	var created models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestCreateInvoiceComputesTotalsServerSide(t *testing.T) {
	f := setupInvoiceFixture(t)

	body := fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":2},{"serviceId":%q,"quantity":1}],"discount":100,"tax":10,"paymentStatus":"unpaid","paymentMethod":"cash"}`,
		f.customer.ID.String(), f.cut.ID.String(), f.trim.ID.String(),
	)
	created := f.createInvoice(t, body)

	assert.Equal(t, 1200.0, created.Subtotal)
	assert.Equal(t, 1220.0, created.Total) // 1200 - 100 + 1200*0.10
	assert.True(t, strings.HasPrefix(created.InvoiceNumber, "INV-"))
	require.Len(t, created.Items, 2)
	assert.Equal(t, "Hair Cut & Styling", created.Items[0].ServiceName)
	assert.Equal(t, 500.0, created.Items[0].UnitPrice)
	assert.Equal(t, 1000.0, created.Items[0].TotalPrice)

	// Customer stats move with the invoice total.
	var customer models.Customer
	require.NoError(t, f.db.First(&customer, "id = ?", f.customer.ID).Error)
	assert.Equal(t, 1, customer.TotalVisits)
	assert.Equal(t, 1220.0, customer.TotalSpent)
}

func TestCreateInvoiceAssignsEmployee(t *testing.T) {
	f := setupInvoiceFixture(t)

	body := fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1,"employeeId":%q}]}`,
		f.customer.ID.String(), f.cut.ID.String(), f.employee.ID.String(),
	)
	created := f.createInvoice(t, body)

	require.Len(t, created.Items, 1)
	require.NotNil(t, created.Items[0].EmployeeID)
	assert.Equal(t, f.employee.ID, *created.Items[0].EmployeeID)
	assert.Equal(t, "Asha", created.Items[0].EmployeeName)
}

func TestCreateInvoiceUnknownEmployeeRejected(t *testing.T) {
	f := setupInvoiceFixture(t)

	body := fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1,"employeeId":%q}]}`,
		f.customer.ID.String(), f.cut.ID.String(), uuid.New().String(),
	)
	w := f.do(http.MethodPost, "/api/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoiceValidationBlocksBeforeWrite(t *testing.T) {
	f := setupInvoiceFixture(t)

	// No items selected.
	w := f.do(http.MethodPost, "/api/invoices",
		fmt.Sprintf(`{"customerId":%q,"items":[]}`, f.customer.ID.String()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No customer selected.
	w = f.do(http.MethodPost, "/api/invoices",
		fmt.Sprintf(`{"items":[{"serviceId":%q,"quantity":1}]}`, f.cut.ID.String()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	f.db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count, "validation failures must not write invoices")
}

func TestCreateInvoiceUnknownServiceRejected(t *testing.T) {
	f := setupInvoiceFixture(t)

	body := fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1}]}`,
		f.customer.ID.String(), uuid.New().String(),
	)
	w := f.do(http.MethodPost, "/api/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoiceQuantityFallsBackToOne(t *testing.T) {
	f := setupInvoiceFixture(t)

	body := fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":0}]}`,
		f.customer.ID.String(), f.cut.ID.String(),
	)
	created := f.createInvoice(t, body)

	require.Len(t, created.Items, 1)
	assert.Equal(t, 1, created.Items[0].Quantity)
	assert.Equal(t, 500.0, created.Subtotal)
}

func TestInvoiceKeepsPriceSnapshotAfterCatalogChange(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":2}]}`,
		f.customer.ID.String(), f.cut.ID.String(),
	))

	require.NoError(t, f.db.Model(&models.Service{}).
		Where("id = ?", f.cut.ID).Update("price", 999).Error)

	w := f.do(http.MethodGet, "/api/invoices/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))

	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 500.0, fetched.Items[0].UnitPrice, "historical invoices must keep their price snapshot")
	assert.Equal(t, 1000.0, fetched.Items[0].TotalPrice)
}

func TestUpdateInvoiceRecomputesTotal(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":2},{"serviceId":%q,"quantity":1}],"discount":100,"tax":10}`,
		f.customer.ID.String(), f.cut.ID.String(), f.trim.ID.String(),
	))

	w := f.do(http.MethodPut, "/api/invoices/"+created.ID.String(), `{"discount":50}`)
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
	var updated models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

	assert.Equal(t, 50.0, updated.Discount)
	assert.Equal(t, 1270.0, updated.Total) // 1200 - 50 + 1200*0.10
}

func TestUpdateInvoiceClampsNegativeDiscount(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":2},{"serviceId":%q,"quantity":1}],"discount":100,"tax":10}`,
		f.customer.ID.String(), f.cut.ID.String(), f.trim.ID.String(),
	))

	w := f.do(http.MethodPut, "/api/invoices/"+created.ID.String(), `{"discount":-50}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

	assert.Equal(t, 0.0, updated.Discount, "negative discount input is treated as 0")
	assert.Equal(t, 1320.0, updated.Total) // 1200 - 0 + 1200*0.10
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":2}],"tax":10}`,
		f.customer.ID.String(), f.cut.ID.String(),
	))

	body := fmt.Sprintf(`{"items":[{"serviceId":%q,"quantity":3}]}`, f.trim.ID.String())
	w := f.do(http.MethodPut, "/api/invoices/"+created.ID.String(), body)
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
	var updated models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Beard Trim", updated.Items[0].ServiceName)
	assert.Equal(t, 600.0, updated.Subtotal)
	assert.Equal(t, 660.0, updated.Total) // 600 + 600*0.10

	var itemCount int64
	f.db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount, "old items must be gone")
}

func TestCyclePaymentStatusPersistsBeforeReporting(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1}],"paymentStatus":"unpaid"}`,
		f.customer.ID.String(), f.cut.ID.String(),
	))

	w := f.do(http.MethodPatch, "/api/invoices/"+created.ID.String()+"/payment-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cycled models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cycled))
	assert.Equal(t, "partial", cycled.PaymentStatus)

	// The reported status matches what was persisted.
	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, "partial", stored.PaymentStatus)

	w = f.do(http.MethodPatch, "/api/invoices/"+created.ID.String()+"/payment-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cycled))
	assert.Equal(t, "paid", cycled.PaymentStatus)
}

func TestPreviewCollapsesDuplicatesAndSkipsStale(t *testing.T) {
	f := setupInvoiceFixture(t)
	stale := uuid.New()

	body := fmt.Sprintf(
		`{"items":[{"serviceId":%q,"quantity":2},{"serviceId":%q,"quantity":1},{"serviceId":%q,"quantity":3},{"serviceId":%q,"quantity":1}],"discount":100,"tax":10}`,
		f.cut.ID.String(), f.trim.ID.String(), f.cut.ID.String(), stale.String(),
	)
	w := f.do(http.MethodPost, "/api/invoices/preview", body)
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())

	var preview struct {
		Subtotal        float64  `json:"subtotal"`
		DiscountedTotal float64  `json:"discountedTotal"`
		Total           float64  `json:"total"`
		StaleServiceIDs []string `json:"staleServiceIds"`
		Items           []gin.H  `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))

	// Re-selecting the cut overwrites quantity 2 with 3: 1500 + 200 = 1700.
	assert.Equal(t, 1700.0, preview.Subtotal)
	assert.Equal(t, 1600.0, preview.DiscountedTotal)
	assert.Equal(t, 1770.0, preview.Total) // 1700 - 100 + 1700*0.10
	require.Len(t, preview.StaleServiceIDs, 1)
	assert.Equal(t, stale.String(), preview.StaleServiceIDs[0])
	assert.Len(t, preview.Items, 2)

	var count int64
	f.db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count, "preview must not persist anything")
}

func TestDeleteInvoiceReversesCustomerStats(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1}]}`,
		f.customer.ID.String(), f.cut.ID.String(),
	))

	w := f.do(http.MethodDelete, "/api/invoices/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var customer models.Customer
	require.NoError(t, f.db.First(&customer, "id = ?", f.customer.ID).Error)
	assert.Equal(t, 0, customer.TotalVisits)
	assert.Equal(t, 0.0, customer.TotalSpent)

	w = f.do(http.MethodGet, "/api/invoices/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoicesAreScopedToSalon(t *testing.T) {
	f := setupInvoiceFixture(t)

	created := f.createInvoice(t, fmt.Sprintf(
		`{"customerId":%q,"items":[{"serviceId":%q,"quantity":1}]}`,
		f.customer.ID.String(), f.cut.ID.String(),
	))

	// Same invoice id through another salon's session is invisible.
	other := gin.New()
	otherAPI := other.Group("/api")
	otherAPI.Use(func(c *gin.Context) {
		session.Attach(c, session.Session{UserID: uuid.New(), SalonID: uuid.New(), Role: "owner"})
		c.Next()
	})
	otherAPI.GET("/invoices/:id", GetInvoice)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+created.ID.String(), nil)
	w := httptest.NewRecorder()
	other.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
