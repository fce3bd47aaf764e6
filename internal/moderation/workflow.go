package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/google/uuid"
)

// Workflow validates and applies event status transitions. Every mutating
// operation runs as one transaction: precondition check, field update and
// history insert commit or roll back together, so no transition is ever
// partially applied.
type Workflow struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewWorkflow(store Store, notifier Notifier) *Workflow {
	return &Workflow{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// change describes what a transition callback did to the event row.
type change struct {
	reason  string
	persist bool
	history bool
}

// SubmitForReview moves a draft event (or one sent back by a negative
// moderation decision) into the review queue.
func (w *Workflow) SubmitForReview(ctx context.Context, eventID, actorID uuid.UUID) (*models.Event, error) {
	return w.transition(ctx, eventID, actorID, actorID, func(event *models.Event) (change, error) {
		if event.Status != models.EventStatusDraft && !event.ModerationStatus.NeedsRevision() {
			return change{}, invalidTransition("only draft or rejected/revision-requested/flagged events can be submitted for review")
		}
		event.Status = models.EventStatusCandidate
		event.ModerationStatus = models.ModerationUnderReview
		return change{reason: "submitted for review", persist: true, history: true}, nil
	})
}

// RevertToDraft withdraws a submission that no admin has acted on yet.
// Reverting after a decision is disallowed: admin history must not be erased
// silently.
func (w *Workflow) RevertToDraft(ctx context.Context, eventID, actorID uuid.UUID) (*models.Event, error) {
	return w.transition(ctx, eventID, actorID, actorID, func(event *models.Event) (change, error) {
		if event.Status != models.EventStatusCandidate || event.ModerationStatus != models.ModerationUnderReview {
			return change{}, invalidTransition("only submitted events awaiting review can be reverted to draft")
		}
		event.Status = models.EventStatusDraft
		event.ModerationStatus = models.ModerationPending
		return change{reason: "submission withdrawn", persist: true, history: true}, nil
	})
}

// SetPublication flips end-user visibility of an approved event. Setting the
// flag to its current value is a no-op and records no history row.
func (w *Workflow) SetPublication(ctx context.Context, eventID, actorID uuid.UUID, wantsPublished bool) (*models.Event, error) {
	return w.transition(ctx, eventID, actorID, actorID, func(event *models.Event) (change, error) {
		if event.ModerationStatus != models.ModerationApproved {
			return change{}, invalidTransition("only approved events can be published or unpublished")
		}
		if event.IsPublished == wantsPublished {
			return change{}, nil
		}
		event.IsPublished = wantsPublished
		reason := "event unpublished"
		if wantsPublished {
			reason = "event published"
		}
		return change{reason: reason, persist: true, history: true}, nil
	})
}

// SetPublicationIntent records the organizer's declared wish to publish.
// The flag is advisory: it has no moderation precondition, flips no visible
// state and is reconciled into is_published when an admin approves the
// event. Not a lifecycle transition, so no history row is written.
func (w *Workflow) SetPublicationIntent(ctx context.Context, eventID, actorID uuid.UUID, wants bool) (*models.Event, error) {
	return w.transition(ctx, eventID, actorID, actorID, func(event *models.Event) (change, error) {
		if event.OrganizerWantsPublished == wants {
			return change{}, nil
		}
		event.OrganizerWantsPublished = wants
		return change{persist: true}, nil
	})
}

// ApplyDecision records an admin verdict on a submitted event. Approval
// activates the event and honors the organizer's publication intent; every
// other decision forces the event off the public site.
func (w *Workflow) ApplyDecision(ctx context.Context, eventID, actorID uuid.UUID, decision models.ModerationStatus, notes string) (*models.Event, error) {
	if !decision.IsDecision() {
		return nil, invalidTransition(fmt.Sprintf("%q is not a moderation decision", decision))
	}
	return w.transition(ctx, eventID, uuid.Nil, actorID, func(event *models.Event) (change, error) {
		if event.Status != models.EventStatusCandidate {
			return change{}, invalidTransition("only submitted events can receive a moderation decision")
		}
		event.ModerationStatus = decision
		event.AdminNotes = notes
		if decision == models.ModerationApproved {
			event.Status = models.EventStatusActive
			event.IsPublished = event.OrganizerWantsPublished
		} else {
			event.IsPublished = false
		}
		return change{reason: "moderation decision: " + decision.String(), persist: true, history: true}, nil
	})
}

// StatusHistory returns the event's transitions newest-first. ownerID
// uuid.Nil skips the ownership check (admin access).
func (w *Workflow) StatusHistory(ctx context.Context, eventID, ownerID uuid.UUID) ([]models.StatusHistory, error) {
	if _, err := w.store.Find(ctx, eventID, ownerID); err != nil {
		return nil, err
	}
	return w.store.History(ctx, eventID)
}

// transition runs one state change end to end: lock the row, validate and
// mutate through apply, stamp attribution, persist event and history in the
// same transaction, notify after commit.
func (w *Workflow) transition(ctx context.Context, eventID, ownerID, actorID uuid.UUID, apply func(event *models.Event) (change, error)) (*models.Event, error) {
	var (
		updated        *models.Event
		prevStatus     models.EventStatus
		prevModeration models.ModerationStatus
		notify         bool
	)

	err := w.store.InTx(ctx, func(tx Store) error {
		event, err := tx.FindForUpdate(ctx, eventID, ownerID)
		if err != nil {
			return err
		}
		prevStatus = event.Status
		prevModeration = event.ModerationStatus

		ch, err := apply(event)
		if err != nil {
			return err
		}
		updated = event
		if !ch.persist {
			return nil
		}

		if ch.history {
			now := w.now()
			event.StatusChangedBy = &actorID
			event.StatusChangedAt = &now
		}
		if err := tx.Save(ctx, event); err != nil {
			return err
		}
		if !ch.history {
			return nil
		}

		entry := &models.StatusHistory{
			EventID:                  event.ID,
			PreviousStatus:           prevStatus,
			NewStatus:                event.Status,
			PreviousModerationStatus: prevModeration,
			NewModerationStatus:      event.ModerationStatus,
			AdminNotes:               event.AdminNotes,
			ChangedBy:                actorID,
		}
		if ch.reason != "" {
			entry.ChangeReason = &ch.reason
		}
		if err := tx.AppendHistory(ctx, entry); err != nil {
			return err
		}
		notify = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notify && w.notifier != nil {
		w.notifier.StatusChanged(updated, prevStatus, prevModeration)
	}
	return updated, nil
}
