package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket is one ticket type an organizer sells for an event, e.g. "Early
// Bird" or "VIP". Quota nil means unlimited.
type Ticket struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Price   int       `gorm:"not null" json:"price"`
	Quota   *int      `json:"quota,omitempty"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Bookings []Booking `json:"bookings,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
