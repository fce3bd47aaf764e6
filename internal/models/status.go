package models

// EventStatus is the primary lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusCandidate EventStatus = "candidate"
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusSuspended EventStatus = "suspended"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) String() string {
	return string(s)
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusCandidate, EventStatusActive, EventStatusCancelled, EventStatusSuspended, EventStatusCompleted:
		return true
	default:
		return false
	}
}

// ModerationStatus tracks the admin review verdict, independent of EventStatus.
type ModerationStatus string

const (
	ModerationPending           ModerationStatus = "pending"
	ModerationUnderReview       ModerationStatus = "under_review"
	ModerationApproved          ModerationStatus = "approved"
	ModerationRejected          ModerationStatus = "rejected"
	ModerationRevisionRequested ModerationStatus = "revision_requested"
	ModerationFlagged           ModerationStatus = "flagged"
)

func (m ModerationStatus) String() string {
	return string(m)
}

func (m ModerationStatus) IsValid() bool {
	switch m {
	case ModerationPending, ModerationUnderReview, ModerationApproved, ModerationRejected, ModerationRevisionRequested, ModerationFlagged:
		return true
	default:
		return false
	}
}

// IsDecision reports whether m is a verdict an admin can hand down on a
// submitted event.
func (m ModerationStatus) IsDecision() bool {
	switch m {
	case ModerationApproved, ModerationRejected, ModerationRevisionRequested, ModerationFlagged:
		return true
	default:
		return false
	}
}

// NeedsRevision reports whether the event was sent back to the organizer and
// can be resubmitted.
func (m ModerationStatus) NeedsRevision() bool {
	return m == ModerationRejected || m == ModerationRevisionRequested || m == ModerationFlagged
}
