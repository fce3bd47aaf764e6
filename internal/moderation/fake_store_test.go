package moderation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. InTx holds the mutex for the whole
// callback, mirroring the row lock the Postgres store takes: concurrent
// transitions on one event serialize, and the loser re-reads committed
// state.
type fakeStore struct {
	mu      sync.Mutex
	events  map[uuid.UUID]*models.Event
	history []models.StatusHistory
	nextID  uint

	saveErr    error
	historyErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[uuid.UUID]*models.Event)}
}

func (f *fakeStore) seed(event models.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := event
	f.events[e.ID] = &e
}

func (f *fakeStore) get(eventID uuid.UUID) models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.events[eventID]
}

func (f *fakeStore) historyLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history)
}

func (f *fakeStore) find(eventID, ownerID uuid.UUID) (*models.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if ownerID != uuid.Nil && event.UserID != ownerID {
		return nil, ErrEventNotFound
	}
	e := *event
	return &e, nil
}

func (f *fakeStore) save(event *models.Event) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	e := *event
	f.events[e.ID] = &e
	return nil
}

func (f *fakeStore) append(entry *models.StatusHistory) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeStore) historyOf(eventID uuid.UUID) ([]models.StatusHistory, error) {
	var entries []models.StatusHistory
	for _, entry := range f.history {
		if entry.EventID == eventID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (f *fakeStore) Find(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(eventID, ownerID)
}

func (f *fakeStore) FindForUpdate(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	return f.Find(ctx, eventID, ownerID)
}

func (f *fakeStore) Save(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(event)
}

func (f *fakeStore) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.append(entry)
}

func (f *fakeStore) History(ctx context.Context, eventID uuid.UUID) ([]models.StatusHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyOf(eventID)
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Snapshot for rollback.
	events := make(map[uuid.UUID]*models.Event, len(f.events))
	for id, event := range f.events {
		e := *event
		events[id] = &e
	}
	historyLen := len(f.history)
	nextID := f.nextID

	if err := fn(&fakeTx{store: f}); err != nil {
		f.events = events
		f.history = f.history[:historyLen]
		f.nextID = nextID
		return err
	}
	return nil
}

// fakeTx is the Store handed to InTx callbacks. The fakeStore mutex is
// already held, so it reaches the data without locking.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Find(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	return t.store.find(eventID, ownerID)
}

func (t *fakeTx) FindForUpdate(ctx context.Context, eventID, ownerID uuid.UUID) (*models.Event, error) {
	return t.store.find(eventID, ownerID)
}

func (t *fakeTx) Save(ctx context.Context, event *models.Event) error {
	return t.store.save(event)
}

func (t *fakeTx) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	return t.store.append(entry)
}

func (t *fakeTx) History(ctx context.Context, eventID uuid.UUID) ([]models.StatusHistory, error) {
	return t.store.historyOf(eventID)
}

func (t *fakeTx) InTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}
