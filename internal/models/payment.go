package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	Amount     int       `gorm:"not null" json:"amount"`
	Method     string    `gorm:"not null" json:"method"`
	Status     string    `gorm:"not null;default:'pending'" json:"status"`
	InvoiceID  string    `gorm:"index" json:"invoice_id,omitempty"`
	InvoiceURL string    `json:"invoice_url,omitempty"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Booking *Booking `gorm:"foreignKey:PaymentID" json:"booking,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
