package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name                 string    `gorm:"not null"`
	Address              string
	WorkingHours         JSONB `gorm:"type:jsonb;default:'{}'"`
	BirthdayReminders    bool  `gorm:"default:true"`
	AnniversaryReminders bool  `gorm:"default:true"`
	WhatsAppReminders    bool  `gorm:"default:false"`
	SMSReminders         bool  `gorm:"default:false"`

	Users     []User     `gorm:"foreignKey:SalonID"`
	Customers []Customer `gorm:"foreignKey:SalonID"`
	Employees []Employee `gorm:"foreignKey:SalonID"`
	Services  []Service  `gorm:"foreignKey:SalonID"`
	Invoices  []Invoice  `gorm:"foreignKey:SalonID"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
