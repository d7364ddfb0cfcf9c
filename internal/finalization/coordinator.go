package finalization

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/opticflow/order-finalization/internal/orderapi"
	"github.com/opticflow/order-finalization/internal/payment"
	"github.com/opticflow/order-finalization/internal/status"
)

// SubmissionState is the operation-level lifecycle of one finalization
// submission. It is deliberately an explicit state machine rather than a
// boolean flag so re-entrancy and retry-after-failure are each an observable
// transition.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSettled    SubmissionState = "settled"
)

// submission tracks the in-flight state for one order id.
type submission struct {
	mu    sync.Mutex
	state SubmissionState
}

// Result is what a successful submission yields.
type Result struct {
	Order *orderapi.Order // updated record returned by the order service
	Quote payment.Quote   // amounts as submitted
	// Sent is the exact update payload delivered to the order service,
	// kept so callers can persist a receipt of what was recorded.
	Sent orderapi.UpdateOrderRequest
}

// Coordinator orchestrates status resolution, payment computation and
// validation into a single update call against the order service. One
// submission may be outstanding per order at a time; while it is, further
// submits for that order fail with ErrSubmissionInFlight.
type Coordinator struct {
	orders orderapi.API

	mu          sync.Mutex
	submissions map[string]*submission
}

// NewCoordinator returns a Coordinator submitting through the given order
// service client.
func NewCoordinator(orders orderapi.API) *Coordinator {
	return &Coordinator{
		orders:      orders,
		submissions: map[string]*submission{},
	}
}

func (c *Coordinator) submission(orderID string) *submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.submissions[orderID]
	if !ok {
		s = &submission{state: StateIdle}
		c.submissions[orderID] = s
	}
	return s
}

// State reports the current submission state for an order. Orders with no
// submission history are Idle.
func (c *Coordinator) State(orderID string) SubmissionState {
	s := c.submission(orderID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin moves Idle -> Validating, or refuses when a submission is already
// past Idle.
func (s *submission) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrSubmissionInFlight
	}
	s.state = StateValidating
	return nil
}

func (s *submission) advance(to SubmissionState) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// Submit runs the full finalization flow for order using req.
//
// Local validation failures return before any network call and leave the
// submission Idle so the operator can correct the form and resubmit. Remote
// failures settle the submission, surface the order service's message as a
// remote_failure error, and also reset to Idle — retry is manual, never
// automatic.
func (c *Coordinator) Submit(ctx context.Context, order *orderapi.Order, req Request) (*Result, error) {
	sub := c.submission(order.ID)
	if err := sub.begin(); err != nil {
		return nil, err
	}
	// whatever happens, the next attempt for this order starts from Idle
	defer sub.advance(StateIdle)

	upd, quote, err := c.prepare(order, req)
	if err != nil {
		return nil, err
	}

	sub.advance(StateSubmitting)

	updated, err := c.orders.UpdateOrder(ctx, order.ID, upd)
	sub.advance(StateSettled)
	if err != nil {
		msg := "order service rejected the finalization"
		if re, ok := err.(*orderapi.RemoteError); ok {
			msg = re.Message
		}
		return nil, &Error{Kind: KindRemoteFailure, Message: msg, Err: err}
	}

	return &Result{Order: updated, Quote: quote, Sent: upd}, nil
}

// prepare resolves the target status, computes the payment quote and runs
// validation. No side effects; on error the submission never leaves the
// local phase.
func (c *Coordinator) prepare(order *orderapi.Order, req Request) (orderapi.UpdateOrderRequest, payment.Quote, error) {
	if err := Validate(order, req); err != nil {
		return orderapi.UpdateOrderRequest{}, payment.Quote{}, err
	}

	var (
		target    status.Status
		delivered bool
		err       error
	)
	if req.Outcome.IsCancelled() && req.WalkedAway {
		target, err = status.ForceCancel(order.Status)
	} else {
		target, delivered, err = status.Resolve(order.Status, req.Outcome.Target(), req.Outcome.Delivered())
	}
	if err != nil {
		// Validate already vetted the transition; this only trips if the
		// order mutated between the two calls.
		return orderapi.UpdateOrderRequest{}, payment.Quote{}, &Error{
			Kind:    KindInvalidTransition,
			Message: fmt.Sprintf("status %s cannot move to %s", order.Status, req.Outcome.Target()),
			Err:     err,
		}
	}

	installments := req.Installments
	if req.Method != payment.MethodCard {
		installments = 0
	}
	quote, err := payment.Compute(req.Method, decimal.NewFromFloat(order.TotalAmount), req.InterestPercent, installments, req.TotalPaid)
	if err != nil {
		// malformed payment entry; the HTTP layer normally rejects this
		// before it gets here
		return orderapi.UpdateOrderRequest{}, payment.Quote{}, fmt.Errorf("compute payment: %w", err)
	}

	upd := orderapi.UpdateOrderRequest{
		Status:           target,
		PaymentMethod:    string(req.Method),
		TotalPaid:        req.TotalPaid.Round(2).InexactFloat64(),
		ProductDelivered: delivered,
		Observations:     req.Observations,
	}
	if req.Method == payment.MethodCard {
		upd.CardInstallments = req.Installments
		upd.CardInterestPercent = req.InterestPercent.InexactFloat64()
	}
	if target == status.StatusCancelled {
		upd.CancellationReason = string(req.Outcome.Reason())
	}

	return upd, quote, nil
}
