package order

import (
	"errors"
	"fmt"

	"github.com/abhishake-droid/pos-console/internal/enum"
)

// Action is a user-triggered operation on an order.
type Action string

const (
	ActionCreate          Action = "create"
	ActionEdit            Action = "edit"
	ActionRetry           Action = "retry"
	ActionCancel          Action = "cancel"
	ActionGenerateInvoice Action = "generate-invoice"
	ActionDownloadInvoice Action = "download-invoice"
)

// Errors returned by lifecycle checks.
var (
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrActionNotAllowed = errors.New("action not allowed in current status")
	ErrInvoiceNotReady  = errors.New("order has no stored invoice")
	ErrUnexpectedStatus = errors.New("unexpected status in submission response")
)

// IsSubmission reports whether a is one of the draft-submitting actions.
// Submissions land in PLACED or UNFULFILLABLE only; the backend decides
// which based on inventory, and the client must not assume success
// means PLACED.
func IsSubmission(a Action) bool {
	return a == ActionCreate || a == ActionEdit || a == ActionRetry
}

// allowed maps each status to the actions a user may trigger from it.
// This is the single authority consulted before any network call; the
// UI derives its visible buttons from the same table.
var allowed = map[string][]Action{
	enum.OrderStatusPlaced: {
		ActionEdit, ActionGenerateInvoice, ActionCancel,
	},
	enum.OrderStatusUnfulfillable: {
		ActionRetry,
	},
	enum.OrderStatusInvoiced: {
		ActionDownloadInvoice,
	},
	enum.OrderStatusCancelled: {},
}

// AllowedActions returns the actions available on an order, in display
// order. Download-invoice additionally requires the stored artifact.
func AllowedActions(o Order) []Action {
	actions, ok := allowed[o.Status]
	if !ok {
		return nil
	}
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a == ActionDownloadInvoice && !o.HasInvoice {
			continue
		}
		out = append(out, a)
	}
	return out
}

// CheckAction reports whether action may be applied to an order in the
// given state. It is called before the corresponding request is sent,
// so an illegal action never reaches the backend.
func CheckAction(o Order, action Action) error {
	if action == ActionCreate {
		return nil // no originating order
	}
	actions, ok := allowed[o.Status]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, o.Status)
	}
	for _, a := range actions {
		if a != action {
			continue
		}
		if a == ActionDownloadInvoice && !o.HasInvoice {
			return ErrInvoiceNotReady
		}
		return nil
	}
	return fmt.Errorf("%w: %s on %s", ErrActionNotAllowed, action, o.Status)
}

// CheckSubmissionResult validates the status the backend returned for a
// create, edit, or retry submission. Only PLACED and UNFULFILLABLE are
// legal landing states.
func CheckSubmissionResult(status string) error {
	switch status {
	case enum.OrderStatusPlaced, enum.OrderStatusUnfulfillable:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnexpectedStatus, status)
}

// ResultStatus returns the status an action is expected to move the
// order into, for actions with a single deterministic outcome.
// Submissions return false: the backend picks PLACED or UNFULFILLABLE.
func ResultStatus(action Action) (string, bool) {
	switch action {
	case ActionCancel:
		return enum.OrderStatusCancelled, true
	case ActionGenerateInvoice:
		return enum.OrderStatusInvoiced, true
	case ActionDownloadInvoice:
		return enum.OrderStatusInvoiced, true // no state change
	}
	return "", false
}
