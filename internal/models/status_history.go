package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistory is an append-only record of one event status transition.
// Rows are never updated or deleted. The autoincrement ID doubles as the
// insertion-order tiebreak when several transitions share a timestamp.
type StatusHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   Event     `gorm:"foreignKey:EventID" json:"-"`

	PreviousStatus           EventStatus      `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus                EventStatus      `gorm:"type:varchar(20);not null" json:"new_status"`
	PreviousModerationStatus ModerationStatus `gorm:"type:varchar(20);not null" json:"previous_moderation_status"`
	NewModerationStatus      ModerationStatus `gorm:"type:varchar(20);not null" json:"new_moderation_status"`

	ChangeReason *string   `gorm:"type:text" json:"change_reason,omitempty"`
	AdminNotes   string    `gorm:"type:text" json:"admin_notes,omitempty"`
	ChangedBy    uuid.UUID `gorm:"type:uuid;not null" json:"changed_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "event_status_history"
}
