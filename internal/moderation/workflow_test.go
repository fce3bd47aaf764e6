package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/google/uuid"
)

type recordingNotifier struct {
	calls int
}

func (n *recordingNotifier) StatusChanged(event *models.Event, previousStatus models.EventStatus, previousModeration models.ModerationStatus) {
	n.calls++
}

func newDraftEvent(ownerID uuid.UUID) models.Event {
	return models.Event{
		ID:               uuid.New(),
		Title:            "Jazz Night",
		UserID:           ownerID,
		Status:           models.EventStatusDraft,
		ModerationStatus: models.ModerationPending,
	}
}

func TestSubmitForReviewFromDraft(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	updated, err := workflow.SubmitForReview(ctx, event.ID, organizer)
	if err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}
	if updated.Status != models.EventStatusCandidate {
		t.Errorf("status = %q, want %q", updated.Status, models.EventStatusCandidate)
	}
	if updated.ModerationStatus != models.ModerationUnderReview {
		t.Errorf("moderation status = %q, want %q", updated.ModerationStatus, models.ModerationUnderReview)
	}
	if updated.StatusChangedBy == nil || *updated.StatusChangedBy != organizer {
		t.Errorf("status_changed_by = %v, want %v", updated.StatusChangedBy, organizer)
	}
	if updated.StatusChangedAt == nil {
		t.Error("status_changed_at not set")
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows = %d, want 1", got)
	}

	// Submitting again immediately must fail and leave everything as is.
	if _, err := workflow.SubmitForReview(ctx, event.ID, organizer); !IsInvalidTransition(err) {
		t.Fatalf("second submit: got %v, want InvalidTransitionError", err)
	}
	after := store.get(event.ID)
	if after.Status != models.EventStatusCandidate || after.ModerationStatus != models.ModerationUnderReview {
		t.Errorf("state after failed submit = %s/%s", after.Status, after.ModerationStatus)
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows after failed submit = %d, want 1", got)
	}
}

func TestSubmitForReviewResubmission(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()

	for _, moderationStatus := range []models.ModerationStatus{
		models.ModerationRejected,
		models.ModerationRevisionRequested,
		models.ModerationFlagged,
	} {
		t.Run(moderationStatus.String(), func(t *testing.T) {
			store := newFakeStore()
			event := newDraftEvent(organizer)
			event.Status = models.EventStatusCandidate
			event.ModerationStatus = moderationStatus
			store.seed(event)
			workflow := NewWorkflow(store, nil)

			updated, err := workflow.SubmitForReview(ctx, event.ID, organizer)
			if err != nil {
				t.Fatalf("resubmit: %v", err)
			}
			if updated.Status != models.EventStatusCandidate || updated.ModerationStatus != models.ModerationUnderReview {
				t.Errorf("state = %s/%s, want candidate/under_review", updated.Status, updated.ModerationStatus)
			}
		})
	}
}

func TestSubmitForReviewNotOwned(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	event := newDraftEvent(uuid.New())
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	stranger := uuid.New()
	if _, err := workflow.SubmitForReview(ctx, event.ID, stranger); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("got %v, want ErrEventNotFound", err)
	}
	if _, err := workflow.SubmitForReview(ctx, uuid.New(), stranger); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("unknown event: got %v, want ErrEventNotFound", err)
	}
}

func TestRevertToDraft(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	event.Status = models.EventStatusCandidate
	event.ModerationStatus = models.ModerationUnderReview
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	updated, err := workflow.RevertToDraft(ctx, event.ID, organizer)
	if err != nil {
		t.Fatalf("RevertToDraft: %v", err)
	}
	if updated.Status != models.EventStatusDraft || updated.ModerationStatus != models.ModerationPending {
		t.Errorf("state = %s/%s, want draft/pending", updated.Status, updated.ModerationStatus)
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows = %d, want 1", got)
	}
}

func TestRevertToDraftAfterDecisionFails(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()

	cases := []struct {
		status     models.EventStatus
		moderation models.ModerationStatus
	}{
		{models.EventStatusDraft, models.ModerationPending},
		{models.EventStatusActive, models.ModerationApproved},
		{models.EventStatusCandidate, models.ModerationRejected},
		{models.EventStatusCandidate, models.ModerationRevisionRequested},
		{models.EventStatusCandidate, models.ModerationFlagged},
	}
	for _, tc := range cases {
		t.Run(string(tc.status)+"/"+string(tc.moderation), func(t *testing.T) {
			store := newFakeStore()
			event := newDraftEvent(organizer)
			event.Status = tc.status
			event.ModerationStatus = tc.moderation
			store.seed(event)
			workflow := NewWorkflow(store, nil)

			if _, err := workflow.RevertToDraft(ctx, event.ID, organizer); !IsInvalidTransition(err) {
				t.Fatalf("got %v, want InvalidTransitionError", err)
			}
			after := store.get(event.ID)
			if after.Status != tc.status || after.ModerationStatus != tc.moderation {
				t.Errorf("state mutated to %s/%s", after.Status, after.ModerationStatus)
			}
			if got := store.historyLen(); got != 0 {
				t.Errorf("history rows = %d, want 0", got)
			}
		})
	}
}

func TestSetPublicationRequiresApproval(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()

	for _, moderationStatus := range []models.ModerationStatus{
		models.ModerationPending,
		models.ModerationUnderReview,
		models.ModerationRejected,
		models.ModerationRevisionRequested,
		models.ModerationFlagged,
	} {
		t.Run(moderationStatus.String(), func(t *testing.T) {
			store := newFakeStore()
			event := newDraftEvent(organizer)
			event.ModerationStatus = moderationStatus
			store.seed(event)
			workflow := NewWorkflow(store, nil)

			if _, err := workflow.SetPublication(ctx, event.ID, organizer, true); !IsInvalidTransition(err) {
				t.Fatalf("got %v, want InvalidTransitionError", err)
			}
			if store.get(event.ID).IsPublished {
				t.Error("is_published set despite failed transition")
			}
		})
	}
}

func TestSetPublicationFlipsFlag(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	event.Status = models.EventStatusActive
	event.ModerationStatus = models.ModerationApproved
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	updated, err := workflow.SetPublication(ctx, event.ID, organizer, true)
	if err != nil {
		t.Fatalf("SetPublication(true): %v", err)
	}
	if !updated.IsPublished {
		t.Error("is_published = false, want true")
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows = %d, want 1", got)
	}

	// Same value again is a no-op: no extra history row.
	if _, err := workflow.SetPublication(ctx, event.ID, organizer, true); err != nil {
		t.Fatalf("no-op SetPublication: %v", err)
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows after no-op = %d, want 1", got)
	}

	updated, err = workflow.SetPublication(ctx, event.ID, organizer, false)
	if err != nil {
		t.Fatalf("SetPublication(false): %v", err)
	}
	if updated.IsPublished {
		t.Error("is_published = true, want false")
	}
	if got := store.historyLen(); got != 2 {
		t.Errorf("history rows = %d, want 2", got)
	}
}

func TestSetPublicationIntent(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	// Intent is advisory: no moderation precondition, no history row.
	updated, err := workflow.SetPublicationIntent(ctx, event.ID, organizer, true)
	if err != nil {
		t.Fatalf("SetPublicationIntent: %v", err)
	}
	if !updated.OrganizerWantsPublished {
		t.Error("organizer_wants_published = false, want true")
	}
	if updated.IsPublished {
		t.Error("intent must not flip is_published")
	}
	if got := store.historyLen(); got != 0 {
		t.Errorf("history rows = %d, want 0", got)
	}
}

func TestApplyDecisionApproval(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	admin := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	event.Status = models.EventStatusCandidate
	event.ModerationStatus = models.ModerationUnderReview
	event.OrganizerWantsPublished = true
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	updated, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationApproved, "looks good")
	if err != nil {
		t.Fatalf("ApplyDecision: %v", err)
	}
	if updated.Status != models.EventStatusActive {
		t.Errorf("status = %q, want %q", updated.Status, models.EventStatusActive)
	}
	if updated.ModerationStatus != models.ModerationApproved {
		t.Errorf("moderation status = %q, want approved", updated.ModerationStatus)
	}
	if !updated.IsPublished {
		t.Error("approval should honor the organizer's publication intent")
	}
	if updated.AdminNotes != "looks good" {
		t.Errorf("admin_notes = %q", updated.AdminNotes)
	}

	history, err := workflow.StatusHistory(ctx, event.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("StatusHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	if history[0].AdminNotes != "looks good" {
		t.Errorf("history admin_notes snapshot = %q", history[0].AdminNotes)
	}
	if history[0].ChangedBy != admin {
		t.Errorf("history changed_by = %v, want %v", history[0].ChangedBy, admin)
	}
}

func TestApplyDecisionRejection(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	admin := uuid.New()

	for _, decision := range []models.ModerationStatus{
		models.ModerationRejected,
		models.ModerationRevisionRequested,
		models.ModerationFlagged,
	} {
		t.Run(decision.String(), func(t *testing.T) {
			store := newFakeStore()
			event := newDraftEvent(organizer)
			event.Status = models.EventStatusCandidate
			event.ModerationStatus = models.ModerationUnderReview
			event.OrganizerWantsPublished = true
			store.seed(event)
			workflow := NewWorkflow(store, nil)

			updated, err := workflow.ApplyDecision(ctx, event.ID, admin, decision, "fix description")
			if err != nil {
				t.Fatalf("ApplyDecision: %v", err)
			}
			// Status stays candidate: the organizer edits and resubmits.
			if updated.Status != models.EventStatusCandidate {
				t.Errorf("status = %q, want candidate", updated.Status)
			}
			if updated.ModerationStatus != decision {
				t.Errorf("moderation status = %q, want %q", updated.ModerationStatus, decision)
			}
			if updated.IsPublished {
				t.Error("negative decision must force is_published = false")
			}
		})
	}
}

func TestApplyDecisionPreconditions(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	admin := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	// Draft events are not in the review queue.
	if _, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationApproved, ""); !IsInvalidTransition(err) {
		t.Fatalf("decision on draft: got %v, want InvalidTransitionError", err)
	}

	// pending/under_review are states, not verdicts.
	if _, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationPending, ""); !IsInvalidTransition(err) {
		t.Fatalf("pending as decision: got %v, want InvalidTransitionError", err)
	}
	if _, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationUnderReview, ""); !IsInvalidTransition(err) {
		t.Fatalf("under_review as decision: got %v, want InvalidTransitionError", err)
	}
}

func TestFullModerationScenario(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	admin := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	notifier := &recordingNotifier{}
	workflow := NewWorkflow(store, notifier)

	if _, err := workflow.SubmitForReview(ctx, event.ID, organizer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationRejected, "fix description"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := workflow.SubmitForReview(ctx, event.ID, organizer); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if _, err := workflow.ApplyDecision(ctx, event.ID, admin, models.ModerationApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	final, err := workflow.SetPublication(ctx, event.ID, organizer, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if final.Status != models.EventStatusActive || final.ModerationStatus != models.ModerationApproved || !final.IsPublished {
		t.Errorf("final state = %s/%s published=%v, want active/approved published=true",
			final.Status, final.ModerationStatus, final.IsPublished)
	}

	history, err := workflow.StatusHistory(ctx, event.ID, organizer)
	if err != nil {
		t.Fatalf("StatusHistory: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("history rows = %d, want 5", len(history))
	}
	// Newest first: publish, approve, resubmit, reject, submit.
	wantNew := []models.ModerationStatus{
		models.ModerationApproved,
		models.ModerationApproved,
		models.ModerationUnderReview,
		models.ModerationRejected,
		models.ModerationUnderReview,
	}
	for i, want := range wantNew {
		if history[i].NewModerationStatus != want {
			t.Errorf("history[%d].new_moderation_status = %q, want %q", i, history[i].NewModerationStatus, want)
		}
	}
	if history[1].AdminNotes != "" {
		t.Errorf("approval notes = %q, want empty", history[1].AdminNotes)
	}
	if history[3].AdminNotes != "fix description" {
		t.Errorf("rejection notes = %q", history[3].AdminNotes)
	}
	if notifier.calls != 5 {
		t.Errorf("notifier calls = %d, want 5", notifier.calls)
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	notifier := &recordingNotifier{}
	workflow := NewWorkflow(store, notifier)

	storeErr := errors.New("connection reset")
	store.saveErr = storeErr

	_, err := workflow.SubmitForReview(ctx, event.ID, organizer)
	if !errors.Is(err, storeErr) {
		t.Fatalf("got %v, want wrapped store error", err)
	}
	after := store.get(event.ID)
	if after.Status != models.EventStatusDraft || after.ModerationStatus != models.ModerationPending {
		t.Errorf("state after rollback = %s/%s, want draft/pending", after.Status, after.ModerationStatus)
	}
	if got := store.historyLen(); got != 0 {
		t.Errorf("history rows = %d, want 0", got)
	}
	if notifier.calls != 0 {
		t.Errorf("notifier called %d times on failed transition", notifier.calls)
	}
}

func TestHistoryInsertFailureRollsBackEvent(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	storeErr := errors.New("history insert failed")
	store.historyErr = storeErr

	if _, err := workflow.SubmitForReview(ctx, event.ID, organizer); !errors.Is(err, storeErr) {
		t.Fatalf("got %v, want store error", err)
	}
	after := store.get(event.ID)
	if after.Status != models.EventStatusDraft {
		t.Errorf("event update survived history failure: status = %q", after.Status)
	}
}

func TestConcurrentDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := workflow.SubmitForReview(ctx, event.ID, organizer)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, invalid int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case IsInvalidTransition(err):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || invalid != 1 {
		t.Fatalf("successes = %d, invalid = %d, want exactly one of each", successes, invalid)
	}

	after := store.get(event.ID)
	if after.Status != models.EventStatusCandidate || after.ModerationStatus != models.ModerationUnderReview {
		t.Errorf("final state = %s/%s, want candidate/under_review", after.Status, after.ModerationStatus)
	}
	if got := store.historyLen(); got != 1 {
		t.Errorf("history rows = %d, want 1", got)
	}
}

func TestStatusHistoryOwnership(t *testing.T) {
	ctx := context.Background()
	organizer := uuid.New()
	store := newFakeStore()
	event := newDraftEvent(organizer)
	store.seed(event)
	workflow := NewWorkflow(store, nil)

	if _, err := workflow.StatusHistory(ctx, event.ID, uuid.New()); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("stranger history read: got %v, want ErrEventNotFound", err)
	}
	if _, err := workflow.StatusHistory(ctx, event.ID, organizer); err != nil {
		t.Fatalf("owner history read: %v", err)
	}
	if _, err := workflow.StatusHistory(ctx, event.ID, uuid.Nil); err != nil {
		t.Fatalf("admin history read: %v", err)
	}
}
