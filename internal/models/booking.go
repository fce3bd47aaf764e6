package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Quantity int       `gorm:"not null;default:1" json:"quantity"`
	Total    int       `gorm:"not null" json:"total"`
	Status   string    `gorm:"not null;default:'pending'" json:"status"`
	IsUsed   bool      `gorm:"not null;default:false" json:"is_used"`

	TicketID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Ticket    Ticket     `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PaymentID *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`
	Payment   *Payment   `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}
