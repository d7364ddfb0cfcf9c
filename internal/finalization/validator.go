package finalization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opticflow/order-finalization/internal/orderapi"
	"github.com/opticflow/order-finalization/internal/payment"
	"github.com/opticflow/order-finalization/internal/status"
)

// Validate gates a finalization request. All checks are local and synchronous;
// nothing reaches the network until every one of them passes. Checks run in a
// fixed order and the first failure wins:
//
//  1. total_paid covers the order's base total        -> insufficient_payment
//  2. cancelled outcomes carry an enumerated reason   -> missing_cancellation_reason
//  3. the target status is reachable from the current -> invalid_transition
//
// The payment check compares against the order's BASE total even for card
// payments whose interest-adjusted total is larger. That reproduces the
// behavior the business runs on today; see ValidateStrictCardTotal for the
// stricter comparison awaiting a product decision.
func Validate(order *orderapi.Order, req Request) error {
	base := decimal.NewFromFloat(order.TotalAmount)

	if req.TotalPaid.LessThan(base) {
		return &Error{
			Kind:    KindInsufficientPayment,
			Message: fmt.Sprintf("paid %s is less than order total %s", req.TotalPaid, base),
		}
	}

	if req.Outcome.IsCancelled() && !req.Outcome.Reason().IsValid() {
		return &Error{
			Kind:    KindMissingCancellationReason,
			Message: "cancelling an order requires a cancellation reason",
		}
	}

	if req.Outcome.IsCancelled() && req.WalkedAway {
		// force-cancel path: the table check is deliberately bypassed,
		// but never out of a terminal status.
		if _, err := status.ForceCancel(order.Status); err != nil {
			return &Error{
				Kind:    KindInvalidTransition,
				Message: fmt.Sprintf("cannot cancel order in status %s", order.Status),
				Err:     err,
			}
		}
		return nil
	}

	if _, _, err := status.Resolve(order.Status, req.Outcome.Target(), req.Outcome.Delivered()); err != nil {
		return &Error{
			Kind:    KindInvalidTransition,
			Message: fmt.Sprintf("status %s cannot move to %s", order.Status, req.Outcome.Target()),
			Err:     err,
		}
	}

	return nil
}

// ValidateStrictCardTotal applies the corrected payment comparison: for card
// payments total_paid must cover the interest-adjusted total, not just the
// base. Not wired into the submission path; kept alongside Validate until the
// business decides whether under-collecting card interest is acceptable.
func ValidateStrictCardTotal(order *orderapi.Order, req Request) error {
	owed := payment.AmountOwed(req.Method, decimal.NewFromFloat(order.TotalAmount), req.InterestPercent)
	if req.TotalPaid.LessThan(owed.Round(2)) {
		return &Error{
			Kind:    KindInsufficientPayment,
			Message: fmt.Sprintf("paid %s is less than amount owed %s", req.TotalPaid, owed.Round(2)),
		}
	}
	return Validate(order, req)
}
