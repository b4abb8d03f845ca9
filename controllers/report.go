// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles revenue and activity aggregation over persisted
// invoice data. It reads the totals the invoice flow computed; it never
// recomputes them.
type ReportController struct{}

type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopServices           []ServiceSummary  `json:"topServices"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CustomerSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalInvoices  int     `json:"totalInvoices"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
	UnpaidInvoices int     `json:"unpaidInvoices"`
}

// GetReportAnalytics returns the revenue summary for the salon
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	loc := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, loc)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthRevenue, err := rc.getRevenue(s.SalonID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	lastMonthRevenue, err := rc.getRevenue(s.SalonID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(s.SalonID, rc.quarterStart(now), rc.quarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}
	lastQuarterRevenue, err := rc.getRevenue(s.SalonID,
		rc.quarterStart(now).AddDate(0, -3, 0),
		rc.quarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(s.SalonID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}
	lastYearRevenue, err := rc.getRevenue(s.SalonID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	topServices, err := rc.getTopServices(s.SalonID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}
	topCustomers, err := rc.getTopCustomers(s.SalonID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}
	quickStats, err := rc.getQuickStatistics(s.SalonID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	c.JSON(http.StatusOK, AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.growthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.growthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.growthPercentage(currentYearRevenue, lastYearRevenue),
		TopServices:           topServices,
		TopCustomers:          topCustomers,
		QuickStats:            quickStats,
	})
}

func (rc *ReportController) getRevenue(salonID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Invoice{}).
		Where("salon_id = ? AND invoice_date BETWEEN ? AND ?", salonID, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) quarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) quarterEnd(date time.Time) time.Time {
	return rc.quarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) growthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopServices(salonID uuid.UUID, start, end time.Time, limit int) ([]ServiceSummary, error) {
	var services []ServiceSummary

	// Group by the name snapshot on the items so deleted services still report.
	err := config.DB.Table("invoice_items").
		Select("invoice_items.service_name AS name, SUM(invoice_items.quantity) AS count, SUM(invoice_items.total_price) AS revenue").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.salon_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL", salonID, start, end).
		Group("invoice_items.service_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&services).Error

	return services, err
}

func (rc *ReportController) getTopCustomers(salonID uuid.UUID, start, end time.Time, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := config.DB.Table("invoices").
		Select("customers.name, COUNT(invoices.id) AS visits, SUM(invoices.total) AS spent").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.salon_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL AND customers.deleted_at IS NULL", salonID, start, end).
		Group("customers.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}

func (rc *ReportController) getQuickStatistics(salonID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("salon_id = ?", salonID).
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("salon_id = ?", salonID).
		Count(&totalInvoices).Error; err != nil {
		return stats, err
	}
	stats.TotalInvoices = int(totalInvoices)

	var unpaidInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("salon_id = ? AND payment_status != ?", salonID, "paid").
		Count(&unpaidInvoices).Error; err != nil {
		return stats, err
	}
	stats.UnpaidInvoices = int(unpaidInvoices)

	var totalRevenue float64
	if err := config.DB.Model(&models.Invoice{}).
		Where("salon_id = ?", salonID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}
	if stats.TotalInvoices > 0 {
		stats.AvgOrderValue = totalRevenue / float64(stats.TotalInvoices)
	}

	return stats, nil
}
