package moderation

import (
	"context"
	"errors"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a Postgres database. FindForUpdate takes a
// row-level lock, so two concurrent transitions on the same event serialize:
// the second one re-reads the committed state and fails its precondition
// instead of double-applying.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Find(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	return s.find(ctx, eventID, ownerID, false)
}

func (s *GormStore) FindForUpdate(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	return s.find(ctx, eventID, ownerID, true)
}

func (s *GormStore) find(ctx context.Context, eventID, ownerID uuid.UUID, forUpdate bool) (*models.Event, error) {
	query := s.db.WithContext(ctx).Model(&models.Event{})
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	query = query.Where("id = ?", eventID)
	if ownerID != uuid.Nil {
		query = query.Where("user_id = ?", ownerID)
	}

	var event models.Event
	if err := query.First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *GormStore) Save(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Save(event).Error
}

func (s *GormStore) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) History(ctx context.Context, eventID uuid.UUID) ([]models.StatusHistory, error) {
	var entries []models.StatusHistory
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
