package moderation

import (
	"context"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/google/uuid"
)

// Store is the storage capability the workflow runs against. The production
// implementation is GormStore; tests substitute an in-memory fake.
type Store interface {
	// Find loads one event row without locking it. ownerID filters by owner;
	// uuid.Nil skips the filter (admin access).
	Find(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error)

	// FindForUpdate loads one event row locked for the duration of the
	// surrounding transaction. Only meaningful on the Store passed to an
	// InTx callback.
	FindForUpdate(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error)

	// Save writes the event's current field values back.
	Save(ctx context.Context, event *models.Event) error

	// AppendHistory inserts one immutable history row.
	AppendHistory(ctx context.Context, entry *models.StatusHistory) error

	// History returns the event's transitions newest-first.
	History(ctx context.Context, eventID uuid.UUID) ([]models.StatusHistory, error)

	// InTx runs fn inside one atomic transaction. fn receives a Store bound
	// to that transaction; an error from fn rolls everything back.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
