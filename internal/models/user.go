package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	RoleID      uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role        Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	Events   []Event   `json:"events,omitempty"`
	Venues   []Venue   `json:"venues,omitempty"`
	Bookings []Booking `json:"bookings,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
