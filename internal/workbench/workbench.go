// Package workbench drives the order screens: it owns the editable
// draft, gates every action through the lifecycle table, submits
// through the API client, and interprets the returned status. One
// submission may be in flight at a time.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/client"
	"github.com/abhishake-droid/pos-console/internal/enum"
	"github.com/abhishake-droid/pos-console/internal/order"
)

// Errors returned by the workbench.
var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrNothingOpen        = errors.New("no draft operation open")
)

// OrderAPI is the slice of the REST client the workbench needs.
// Satisfied by *client.Client; narrow interface for testability.
type OrderAPI interface {
	CreateOrder(ctx context.Context, payload client.OrderPayload) (*order.Order, error)
	UpdateOrder(ctx context.Context, orderID string, payload client.OrderPayload) (*order.Order, error)
	RetryOrder(ctx context.Context, orderID string, payload *client.OrderPayload) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	GenerateInvoice(ctx context.Context, orderID string) (*order.Order, error)
	DownloadInvoice(ctx context.Context, orderID string, w io.Writer) error
}

// Workbench is the state behind a create/edit/retry dialog plus the
// row actions of the order list.
type Workbench struct {
	api    OrderAPI
	logger *logrus.Logger

	mu       sync.Mutex
	draft    *order.Draft
	action   order.Action // open submission mode, "" when closed
	target   string       // orderID for edit/retry
	inFlight bool
}

// New creates a Workbench with a fresh draft.
func New(api OrderAPI, logger *logrus.Logger) *Workbench {
	return &Workbench{api: api, logger: logger, draft: order.NewDraft()}
}

// Draft exposes the open draft for line edits.
func (w *Workbench) Draft() *order.Draft {
	return w.draft
}

// OpenCreate starts a new order draft with one blank line.
func (w *Workbench) OpenCreate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Reset()
	w.action = order.ActionCreate
	w.target = ""
}

// OpenEdit fetches an order and loads its items into the draft. Only
// PLACED orders may be edited; the check runs before the draft is
// touched, so an illegal open leaves current state intact.
func (w *Workbench) OpenEdit(ctx context.Context, orderID string) (*order.Order, error) {
	return w.openFor(ctx, orderID, order.ActionEdit)
}

// OpenRetry fetches an UNFULFILLABLE order and loads its items for
// resubmission.
func (w *Workbench) OpenRetry(ctx context.Context, orderID string) (*order.Order, error) {
	return w.openFor(ctx, orderID, order.ActionRetry)
}

func (w *Workbench) openFor(ctx context.Context, orderID string, action order.Action) (*order.Order, error) {
	o, err := w.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckAction(*o, action); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.LoadItems(o.Items)
	w.action = action
	w.target = o.OrderID
	return o, nil
}

// Discard closes the open operation and resets the draft, the cancel
// path of a dialog.
func (w *Workbench) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Reset()
	w.action = ""
	w.target = ""
}

// beginSubmit validates and claims the in-flight slot.
func (w *Workbench) beginSubmit() (order.Action, string, client.OrderPayload, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.action == "" {
		return "", "", client.OrderPayload{}, ErrNothingOpen
	}
	if w.inFlight {
		return "", "", client.OrderPayload{}, ErrSubmissionInFlight
	}
	if err := w.draft.Validate(); err != nil {
		return "", "", client.OrderPayload{}, err
	}
	w.inFlight = true
	return w.action, w.target, client.NewOrderPayload(w.draft.Lines()), nil
}

func (w *Workbench) endSubmit(success bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if success {
		// Draft state is only cleared on confirmed success; a failed
		// submission keeps the user's lines for correction.
		w.draft.Reset()
		w.action = ""
		w.target = ""
	}
}

// Submit validates the draft and sends the open create/edit/retry
// operation. Validation failures and concurrent submissions return
// before any network call. The returned order's status is PLACED or
// UNFULFILLABLE; the caller decides how loudly to present each.
func (w *Workbench) Submit(ctx context.Context) (*order.Order, error) {
	action, target, payload, err := w.beginSubmit()
	if err != nil {
		return nil, err
	}

	var o *order.Order
	switch action {
	case order.ActionCreate:
		o, err = w.api.CreateOrder(ctx, payload)
	case order.ActionEdit:
		o, err = w.api.UpdateOrder(ctx, target, payload)
	case order.ActionRetry:
		o, err = w.api.RetryOrder(ctx, target, &payload)
	default:
		err = fmt.Errorf("%w: %s", order.ErrActionNotAllowed, action)
	}
	if err != nil {
		w.endSubmit(false)
		return nil, err
	}

	if err := order.CheckSubmissionResult(o.Status); err != nil {
		w.endSubmit(false)
		return nil, err
	}

	if o.Status == enum.OrderStatusUnfulfillable {
		w.logger.WithFields(logrus.Fields{
			"order_id":  o.OrderID,
			"shortfall": len(o.UnfulfillableItems),
		}).Warn("Order accepted but unfulfillable, retry available")
	} else {
		w.logger.WithField("order_id", o.OrderID).Info("Order placed")
	}

	w.endSubmit(true)
	return o, nil
}

// Cancel cancels a PLACED order after a lifecycle check; the request is
// never sent from an illegal state.
func (w *Workbench) Cancel(ctx context.Context, o order.Order) (*order.Order, error) {
	if err := order.CheckAction(o, order.ActionCancel); err != nil {
		return nil, err
	}
	return w.api.CancelOrder(ctx, o.OrderID)
}

// GenerateInvoice creates the invoice for a PLACED order.
func (w *Workbench) GenerateInvoice(ctx context.Context, o order.Order) (*order.Order, error) {
	if err := order.CheckAction(o, order.ActionGenerateInvoice); err != nil {
		return nil, err
	}
	return w.api.GenerateInvoice(ctx, o.OrderID)
}

// DownloadInvoice streams the stored invoice of an INVOICED order.
func (w *Workbench) DownloadInvoice(ctx context.Context, o order.Order, out io.Writer) error {
	if err := order.CheckAction(o, order.ActionDownloadInvoice); err != nil {
		return err
	}
	return w.api.DownloadInvoice(ctx, o.OrderID, out)
}
