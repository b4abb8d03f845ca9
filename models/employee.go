package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a staff member who can be assigned to invoice line items.
type Employee struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Email    string
	Phone    string
	Role     string `gorm:"default:'employee'"`
	IsActive bool   `gorm:"default:true"`

	gorm.Model
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
