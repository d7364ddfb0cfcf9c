package finalization

import (
	"github.com/shopspring/decimal"

	"github.com/opticflow/order-finalization/internal/payment"
	"github.com/opticflow/order-finalization/internal/status"
)

// CancellationReason is why the customer walked away from the order.
type CancellationReason string

const (
	ReasonPrice          CancellationReason = "price"
	ReasonNoMoney        CancellationReason = "no_money"
	ReasonChangedMind    CancellationReason = "changed_mind"
	ReasonFoundElsewhere CancellationReason = "found_elsewhere"
	ReasonQuality        CancellationReason = "quality"
	ReasonOther          CancellationReason = "other"
)

// IsValid reports whether r is one of the enumerated reasons.
func (r CancellationReason) IsValid() bool {
	switch r {
	case ReasonPrice, ReasonNoMoney, ReasonChangedMind, ReasonFoundElsewhere, ReasonQuality, ReasonOther:
		return true
	}
	return false
}

// Outcome is the single tagged value describing how a finalization closes the
// order: moved to production, completed (optionally with the product handed
// over), or cancelled with a reason. It replaces the form's historically
// independent status + delivered + reason fields so the three can never
// disagree.
type Outcome struct {
	target    status.Status
	delivered bool
	reason    CancellationReason
}

// OutcomeInProgress keeps the order open and moves it into production.
func OutcomeInProgress() Outcome {
	return Outcome{target: status.StatusInProgress}
}

// OutcomeCompleted closes the order; delivered records whether the product
// was handed over to the customer.
func OutcomeCompleted(delivered bool) Outcome {
	return Outcome{target: status.StatusCompleted, delivered: delivered}
}

// OutcomeCancelled closes the order as lost, with the reason the customer
// gave (may be empty; the validator rejects that).
func OutcomeCancelled(reason CancellationReason) Outcome {
	return Outcome{target: status.StatusCancelled, reason: reason}
}

// Target is the status this outcome asks the order service to record.
func (o Outcome) Target() status.Status { return o.target }

// Delivered reports whether the product was handed over. Only meaningful for
// completed outcomes.
func (o Outcome) Delivered() bool { return o.delivered }

// Reason returns the cancellation reason. Empty unless the outcome is
// cancelled.
func (o Outcome) Reason() CancellationReason { return o.reason }

// IsCancelled reports whether the outcome closes the order as lost.
func (o Outcome) IsCancelled() bool { return o.target == status.StatusCancelled }

// Request is one finalization attempt for one order. It is built fresh each
// time the finalization flow opens and discarded after a single submission,
// successful or not.
type Request struct {
	Method          payment.Method
	Installments    int             // card only
	InterestPercent decimal.Decimal // card only, >= 0
	TotalPaid       decimal.Decimal
	Outcome         Outcome
	// WalkedAway engages the force-cancel escape hatch: the customer
	// abandoned an order already in production. Only honored when the
	// outcome is cancelled.
	WalkedAway   bool
	Observations string
}
