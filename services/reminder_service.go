// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"time"

	"salonflow-backend/models"
	"salonflow-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sends birthday and anniversary greetings. Messages use a
// fixed format; there is no per-salon template editing.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

// StartScheduler runs the daily send at 9 AM.
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("0 9 * * *", s.SendDailyReminders); err != nil {
		logrus.WithError(err).Error("failed to schedule reminder job")
		return
	}

	c.Start()
	logrus.Info("reminder scheduler started")
}

// SendDailyReminders processes every salon that has reminders enabled.
func (s *ReminderService) SendDailyReminders() {
	logrus.Info("starting daily reminder processing")

	var salons []models.Salon
	if err := s.db.Where("birthday_reminders = ? OR anniversary_reminders = ?", true, true).
		Find(&salons).Error; err != nil {
		logrus.WithError(err).Error("failed to fetch salons")
		return
	}

	for _, salon := range salons {
		s.processSalon(salon)
	}
}

func (s *ReminderService) processSalon(salon models.Salon) {
	channel := "sms"
	if salon.WhatsAppReminders {
		channel = "whatsapp"
	} else if !salon.SMSReminders {
		return
	}

	var customers []models.Customer
	if err := s.db.Where("salon_id = ? AND is_active = ?", salon.ID, true).
		Find(&customers).Error; err != nil {
		logrus.WithError(err).WithField("salon", salon.ID).Error("failed to fetch customers")
		return
	}

	today := time.Now()
	for _, customer := range customers {
		if salon.BirthdayReminders && customer.Birthday != nil && utils.SameMonthDay(today, *customer.Birthday) {
			message := fmt.Sprintf("Happy Birthday, %s! Treat yourself today — the team at %s", customer.Name, salon.Name)
			s.send(salon, customer, "birthday", channel, message)
		}
		if salon.AnniversaryReminders && customer.Anniversary != nil && utils.SameMonthDay(today, *customer.Anniversary) {
			message := fmt.Sprintf("Happy Anniversary, %s! Warm wishes from %s", customer.Name, salon.Name)
			s.send(salon, customer, "anniversary", channel, message)
		}
	}
}

func (s *ReminderService) send(salon models.Salon, customer models.Customer, kind, channel, message string) {
	to := customer.Phone
	from := s.from
	if channel == "whatsapp" {
		to = "whatsapp:" + to
		from = "whatsapp:" + from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	entry := models.ReminderLog{
		SalonID:    salon.ID,
		CustomerID: customer.ID,
		Type:       kind,
		Message:    message,
		Channel:    channel,
		SentAt:     time.Now(),
		Status:     "sent",
	}

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
		logrus.WithError(err).WithFields(logrus.Fields{
			"salon":    salon.ID,
			"customer": customer.ID,
			"type":     kind,
		}).Error("failed to send reminder")
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logrus.WithError(err).Error("failed to log reminder")
	}
}
