package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	City        string    `gorm:"not null;index" json:"city"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `gorm:"not null" json:"country"`
	Capacity    *int      `json:"capacity,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Events []Event `json:"events,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (venue *Venue) BeforeCreate(tx *gorm.DB) (err error) {
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	return
}
