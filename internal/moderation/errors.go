package moderation

import "errors"

// ErrEventNotFound is returned when the event does not exist or does not
// belong to the caller.
var ErrEventNotFound = errors.New("event not found")

// InvalidTransitionError rejects an operation whose precondition does not
// hold for the event's current state. The reason names the violated
// precondition and is safe to show to the caller.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}

func invalidTransition(reason string) error {
	return &InvalidTransitionError{Reason: reason}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
