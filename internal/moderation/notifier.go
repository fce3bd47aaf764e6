package moderation

import (
	"log"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
)

// Notifier is told about committed transitions so organizers and admins can
// be informed. It runs after commit; a slow or failing notifier cannot roll
// back the transition.
type Notifier interface {
	StatusChanged(event *models.Event, previousStatus models.EventStatus, previousModeration models.ModerationStatus)
}

// LogNotifier writes transition notifications to the process log. It stands
// in for the platform's mail/push dispatcher.
type LogNotifier struct{}

func (LogNotifier) StatusChanged(event *models.Event, previousStatus models.EventStatus, previousModeration models.ModerationStatus) {
	log.Printf("event %s: %s/%s -> %s/%s",
		event.ID, previousStatus, previousModeration, event.Status, event.ModerationStatus)
}
