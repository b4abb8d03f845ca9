// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonflow-backend/billing"
	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceItemInput defines the structure for an invoice item. Quantity is
// deliberately unvalidated here: a non-positive value falls back to 1 inside
// the billing resolver instead of rejecting the request.
type InvoiceItemInput struct {
	ServiceID  uuid.UUID  `json:"serviceId" binding:"required"`
	Quantity   int        `json:"quantity"`
	EmployeeID *uuid.UUID `json:"employeeId"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	CustomerID    uuid.UUID          `json:"customerId"`
	InvoiceDate   *time.Time         `json:"invoiceDate"`
	Items         []InvoiceItemInput `json:"items"`
	Discount      float64            `json:"discount"`
	Tax           float64            `json:"tax"`
	PaymentStatus string             `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    float64            `json:"paidAmount" binding:"min=0"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an invoice
type UpdateInvoiceInput struct {
	CustomerID    *uuid.UUID          `json:"customerId"`
	InvoiceDate   *time.Time          `json:"invoiceDate"`
	Items         *[]InvoiceItemInput `json:"items"`
	Discount      *float64            `json:"discount"`
	Tax           *float64            `json:"tax"`
	PaymentStatus *string             `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    *float64            `json:"paidAmount" binding:"omitempty,min=0"`
	PaymentMethod *string             `json:"paymentMethod"`
	Notes         *string             `json:"notes"`
}

// PreviewInvoiceInput carries an in-progress draft for a totals preview.
type PreviewInvoiceInput struct {
	Items    []InvoiceItemInput `json:"items"`
	Discount float64            `json:"discount"`
	Tax      float64            `json:"tax"`
}

func toBillingInputs(inputs []InvoiceItemInput) []billing.LineItemInput {
	out := make([]billing.LineItemInput, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, billing.LineItemInput{
			ServiceID:  in.ServiceID,
			Quantity:   in.Quantity,
			EmployeeID: in.EmployeeID,
		})
	}
	return out
}

// loadCatalog reads the salon's services once and freezes them into a billing
// snapshot. Every resolution for the current request goes through this
// snapshot; the services table is not consulted again.
func loadCatalog(db *gorm.DB, salonID uuid.UUID) (billing.Catalog, error) {
	var rows []models.Service
	if err := db.Where("salon_id = ?", salonID).Find(&rows).Error; err != nil {
		return nil, err
	}

	services := make([]billing.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, billing.Service{
			ID:       row.ID,
			Name:     row.Name,
			Price:    decimal.NewFromFloat(row.Price),
			Duration: row.Duration,
			Category: row.Category,
			IsActive: row.IsActive,
		})
	}
	return billing.NewCatalog(services), nil
}

// loadEmployeeNames reads the salon's staff once for line item assignment.
func loadEmployeeNames(db *gorm.DB, salonID uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []models.Employee
	if err := db.Where("salon_id = ?", salonID).Find(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// resolveForPersist resolves items on the strict write path: a stale service
// or employee id rejects the whole request instead of degrading to a zero
// contribution, since the result is about to become a historical record.
func resolveForPersist(catalog billing.Catalog, employees map[uuid.UUID]string, inputs []InvoiceItemInput) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := billing.ResolveLineItem(catalog, billing.LineItemInput{
			ServiceID:  in.ServiceID,
			Quantity:   in.Quantity,
			EmployeeID: in.EmployeeID,
		})
		if err != nil {
			return nil, err
		}
		if item.EmployeeID != nil {
			name, ok := employees[*item.EmployeeID]
			if !ok {
				return nil, errors.New("employee not found: " + item.EmployeeID.String())
			}
			item.EmployeeName = name
		}
		items = append(items, item)
	}
	return items, nil
}

func toModelItems(invoiceID uuid.UUID, items []billing.LineItem) []models.InvoiceItem {
	out := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.InvoiceItem{
			ID:           uuid.New(),
			InvoiceID:    invoiceID,
			ServiceID:    item.ServiceID,
			ServiceName:  item.ServiceName,
			Quantity:     item.Quantity,
			UnitPrice:    billing.Amount(item.UnitPrice),
			TotalPrice:   billing.Amount(item.TotalPrice),
			EmployeeID:   item.EmployeeID,
			EmployeeName: item.EmployeeName,
		})
	}
	return out
}

// CreateInvoice creates a new invoice for the salon. The server is the
// authority on subtotal and total; whatever the client previewed locally is
// recomputed here from the catalog snapshot.
func CreateInvoice(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Draft validation happens before any write is attempted.
	if err := billing.ValidateDraft(input.CustomerID, toBillingInputs(input.Items)); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Validate customer exists in the same salon
	var customer models.Customer
	if err := config.DB.Where("salon_id = ? AND id = ?", s.SalonID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	catalog, err := loadCatalog(config.DB, s.SalonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load service catalog")
		return
	}
	employees, err := loadEmployeeNames(config.DB, s.SalonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load employees")
		return
	}

	items, err := resolveForPersist(catalog, employees, input.Items)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	totals := billing.ComputeTotals(items, decimal.NewFromFloat(input.Discount), decimal.NewFromFloat(input.Tax))

	paymentStatus := billing.PaymentStatus(input.PaymentStatus)
	if paymentStatus == "" {
		paymentStatus = billing.PaymentUnpaid
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	invoiceID := uuid.New()
	invoice := models.Invoice{
		ID:              invoiceID,
		SalonID:         s.SalonID,
		CreatedByUserID: s.UserID,
		InvoiceNumber:   "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		CustomerID:      input.CustomerID,
		InvoiceDate:     invoiceDate,
		Subtotal:        billing.Amount(totals.Subtotal),
		Discount:        billing.Amount(clampAmount(input.Discount)),
		Tax:             billing.Amount(clampAmount(input.Tax)),
		Total:           billing.Amount(totals.Total),
		PaymentStatus:   string(paymentStatus),
		PaidAmount:      input.PaidAmount,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		Items:           toModelItems(invoiceID, items),
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	// Update customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", input.CustomerID).
		Updates(map[string]interface{}{
			"total_visits": gorm.Expr("total_visits + ?", 1),
			"total_spent":  gorm.Expr("total_spent + ?", invoice.Total),
			"last_visit":   invoiceDate,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, invoice)
}

func clampAmount(v float64) decimal.Decimal {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// PreviewInvoiceTotals computes totals for an in-progress draft without
// persisting anything. Draft semantics apply: duplicate service selections
// collapse to the last one, and services deleted mid-session contribute zero
// instead of failing the preview.
func PreviewInvoiceTotals(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var input PreviewInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	catalog, err := loadCatalog(config.DB, s.SalonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load service catalog")
		return
	}

	collapsed := billing.CollapseItems(toBillingInputs(input.Items))
	items, resolveErrs := billing.ResolveLineItems(catalog, collapsed)
	totals := billing.ComputeTotals(items, decimal.NewFromFloat(input.Discount), decimal.NewFromFloat(input.Tax))

	staleServices := make([]uuid.UUID, 0, len(resolveErrs))
	for _, resolveErr := range resolveErrs {
		var nf *billing.ServiceNotFoundError
		if errors.As(resolveErr, &nf) {
			staleServices = append(staleServices, nf.ServiceID)
		}
	}

	previewItems := make([]gin.H, 0, len(items))
	for _, item := range items {
		previewItems = append(previewItems, gin.H{
			"serviceId":   item.ServiceID,
			"serviceName": item.ServiceName,
			"quantity":    item.Quantity,
			"unitPrice":   billing.Amount(item.UnitPrice),
			"totalPrice":  billing.Amount(item.TotalPrice),
			"employeeId":  item.EmployeeID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"subtotal":        billing.Amount(totals.Subtotal),
		"discountedTotal": billing.Amount(totals.DiscountedTotal),
		"total":           billing.Amount(totals.Total),
		"items":           previewItems,
		"staleServiceIds": staleServices,
	})
}

// GetInvoices retrieves all invoices for the salon
func GetInvoices(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Where("salon_id = ?", s.SalonID).
		Order("invoice_date DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").
		Where("salon_id = ? AND id = ?", s.SalonID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice. Item, discount, or tax changes
// recompute the stored total server-side; client-side totals are preview only.
func UpdateInvoice(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Items != nil && len(*input.Items) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "items: at least one service must be selected")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Preload("Items").
		Where("salon_id = ? AND id = ?", s.SalonID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		// Validate customer exists in the same salon
		var customer models.Customer
		if err := tx.Where("salon_id = ? AND id = ?", s.SalonID, *input.CustomerID).
			First(&customer).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		invoice.CustomerID = *input.CustomerID
	}

	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}

	// If items are being replaced, resolve them against a fresh catalog
	// snapshot and rebuild the line items with new price snapshots.
	if input.Items != nil {
		catalog, err := loadCatalog(tx, s.SalonID)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load service catalog")
			return
		}
		employees, err := loadEmployeeNames(tx, s.SalonID)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load employees")
			return
		}

		items, err := resolveForPersist(catalog, employees, *input.Items)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		newItems := toModelItems(invoice.ID, items)
		if err := tx.Create(&newItems).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save items")
			return
		}

		subtotal := billing.ComputeTotals(items, decimal.Zero, decimal.Zero).Subtotal
		invoice.Items = newItems
		invoice.Subtotal = billing.Amount(subtotal)
	}

	if input.Discount != nil {
		invoice.Discount = billing.Amount(clampAmount(*input.Discount))
	}

	if input.Tax != nil {
		invoice.Tax = billing.Amount(clampAmount(*input.Tax))
	}

	// Recalculate total if anything that feeds it changed
	if input.Items != nil || input.Discount != nil || input.Tax != nil {
		totals := billing.TotalsFromSubtotal(
			decimal.NewFromFloat(invoice.Subtotal),
			decimal.NewFromFloat(invoice.Discount),
			decimal.NewFromFloat(invoice.Tax),
		)
		invoice.Total = billing.Amount(totals.Total)
	}

	if input.PaymentStatus != nil {
		invoice.PaymentStatus = *input.PaymentStatus
	}

	if input.PaidAmount != nil {
		invoice.PaidAmount = *input.PaidAmount
	}

	if input.PaymentMethod != nil {
		invoice.PaymentMethod = *input.PaymentMethod
	}

	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := tx.Omit(clause.Associations).Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// CyclePaymentStatus advances an invoice one step through the fixed status
// cycle paid -> unpaid -> partial. The new status is only reported back once
// the write has succeeded, so a failed update leaves the caller's view
// unchanged.
func CyclePaymentStatus(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("salon_id = ? AND id = ?", s.SalonID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	next := billing.NextPaymentStatus(billing.PaymentStatus(invoice.PaymentStatus))

	if err := config.DB.Model(&invoice).Update("payment_status", string(next)).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	invoice.PaymentStatus = string(next)
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice soft deletes an invoice
func DeleteInvoice(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Where("salon_id = ? AND id = ?", s.SalonID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice items")
		return
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	// Update customer stats (decrement)
	if err := tx.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).
		Updates(map[string]interface{}{
			"total_visits": gorm.Expr("total_visits - ?", 1),
			"total_spent":  gorm.Expr("total_spent - ?", invoice.Total),
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
