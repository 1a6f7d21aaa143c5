package click

import (
	"fmt"

	"github.com/go-push-worker/internal/domain"
)

// ActionError is the failure of an http action.
type ActionError struct {
	Action *domain.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s action %q: %v", e.Action.Action, e.Action.Label, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// lookupAction finds the action labelled label on msg. A label the message
// does not declare is a domain.ErrUnknownAction.
func lookupAction(msg *domain.Message, label string) (*domain.Action, error) {
	if a := msg.FindAction(label); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("action %q: %w", label, domain.ErrUnknownAction)
}
