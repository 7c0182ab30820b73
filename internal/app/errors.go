package app

import (
	"errors"
	"fmt"

	"github.com/lu-zhengda/escalytics/internal/insight"
)

// ErrNoUnread is returned when the mailbox has no unread message to analyze.
var ErrNoUnread = fmt.Errorf("no unread emails found: %w", insight.ErrEmptyInput)

// ErrNoMailbox is returned by mailbox operations when no account is connected.
var ErrNoMailbox = errors.New("no mailbox account connected")

// UnavailableError reports that an external collaborator could not be
// reached. The run that needed it is aborted.
type UnavailableError struct {
	Collaborator string
	Err          error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
