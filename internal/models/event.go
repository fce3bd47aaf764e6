package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	BannerPath  string    `json:"banner_path,omitempty"`

	Status                  EventStatus      `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ModerationStatus        ModerationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"moderation_status"`
	IsPublished             bool             `gorm:"not null;default:false;index" json:"is_published"`
	OrganizerWantsPublished bool             `gorm:"not null;default:false" json:"organizer_wants_published"`
	AdminNotes              string           `gorm:"type:text" json:"admin_notes,omitempty"`
	StatusChangedBy         *uuid.UUID       `gorm:"type:uuid" json:"status_changed_by,omitempty"`
	StatusChangedAt         *time.Time       `json:"status_changed_at,omitempty"`

	VenueID *uuid.UUID `gorm:"type:uuid;index" json:"venue_id,omitempty"`
	Venue   *Venue     `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User    User       `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Categories []Category `gorm:"many2many:event_categories;" json:"categories,omitempty"`
	Tickets    []Ticket   `json:"tickets,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = EventStatusDraft
	}
	if event.ModerationStatus == "" {
		event.ModerationStatus = ModerationPending
	}
	return
}
