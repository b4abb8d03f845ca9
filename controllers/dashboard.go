// controllers/dashboard.go
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers  int              `json:"totalCustomers"`
	MonthlyRevenue  float64          `json:"monthlyRevenue"`
	TotalInvoices   int              `json:"totalInvoices"`
	UpcomingEvents  []UpcomingEvent  `json:"upcomingEvents"`
	RecentCustomers []RecentCustomer `json:"recentCustomers"`
}

type UpcomingEvent struct {
	Name string `json:"name"`
	Type string `json:"type"` // "Birthday" or "Anniversary"
	Date string `json:"date"` // e.g. "Today", "Tomorrow", "3 days"
}

type RecentCustomer struct {
	Name      string `json:"name"`
	VisitDate string `json:"visitDate"`
}

func GetDashboardOverview(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("salon_id = ?", s.SalonID).Count(&totalCustomers)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	config.DB.Model(&models.Invoice{}).
		Where("salon_id = ? AND invoice_date >= ?", s.SalonID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthlyRevenue)

	var totalInvoices int64
	config.DB.Model(&models.Invoice{}).Where("salon_id = ?", s.SalonID).Count(&totalInvoices)

	upcoming := upcomingEvents(s, now, 7)
	recent := recentCustomers(s, now, 5)

	c.JSON(http.StatusOK, DashboardOverview{
		TotalCustomers:  int(totalCustomers),
		MonthlyRevenue:  monthlyRevenue,
		TotalInvoices:   int(totalInvoices),
		UpcomingEvents:  upcoming,
		RecentCustomers: recent,
	})
}

// upcomingEvents scans customers with a birthday or anniversary within the
// next `days` days, comparing month and day only.
func upcomingEvents(s session.Session, now time.Time, days int) []UpcomingEvent {
	var customers []models.Customer
	config.DB.Where("salon_id = ? AND (birthday IS NOT NULL OR anniversary IS NOT NULL)", s.SalonID).
		Find(&customers)

	events := []UpcomingEvent{}
	for _, customer := range customers {
		if customer.Birthday != nil {
			if offset, ok := daysUntilMonthDay(now, *customer.Birthday, days); ok {
				events = append(events, UpcomingEvent{Name: customer.Name, Type: "Birthday", Date: relativeDay(offset)})
			}
		}
		if customer.Anniversary != nil {
			if offset, ok := daysUntilMonthDay(now, *customer.Anniversary, days); ok {
				events = append(events, UpcomingEvent{Name: customer.Name, Type: "Anniversary", Date: relativeDay(offset)})
			}
		}
	}
	return events
}

func recentCustomers(s session.Session, now time.Time, limit int) []RecentCustomer {
	var customers []models.Customer
	config.DB.Where("salon_id = ? AND last_visit IS NOT NULL", s.SalonID).
		Order("last_visit DESC").
		Limit(limit).
		Find(&customers)

	recent := []RecentCustomer{}
	for _, customer := range customers {
		recent = append(recent, RecentCustomer{
			Name:      customer.Name,
			VisitDate: relativeDay(-utils.DaysBetween(*customer.LastVisit, now)),
		})
	}
	return recent
}

// daysUntilMonthDay returns how many days from now (0..within) the month/day
// of event next occurs, handling the year rollover.
func daysUntilMonthDay(now, event time.Time, within int) (int, bool) {
	for offset := 0; offset <= within; offset++ {
		candidate := now.AddDate(0, 0, offset)
		if utils.SameMonthDay(candidate, event) {
			return offset, true
		}
	}
	return 0, false
}

func relativeDay(offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}
	if offset < 0 {
		return fmt.Sprintf("%d days ago", -offset)
	}
	return fmt.Sprintf("%d days", offset)
}
