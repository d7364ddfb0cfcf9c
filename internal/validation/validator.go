package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/opticflow/order-finalization/internal/finalization"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for FinalizeOrderRequest: the
	// cross-field coupling the tag syntax cannot express.
	v.RegisterStructValidation(finalizeOrderStructValidation, FinalizeOrderRequest{})
	v.RegisterStructValidation(quoteStructValidation, QuoteRequest{})

	return v
}

// finalizeOrderStructValidation enforces the coupled-field rules:
//   - cancellation_reason is present iff target_status is cancelled, and must
//     be one of the enumerated reasons
//   - card_installments is required for card and forbidden otherwise
//   - product_delivered only makes sense when asking for completed
//   - customer_walked_away only accompanies a cancellation
func finalizeOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(FinalizeOrderRequest)

	cancelled := req.TargetStatus == "cancelled"
	if cancelled {
		if req.CancellationReason == "" {
			sl.ReportError(req.CancellationReason, "cancellation_reason", "CancellationReason", "required_if_cancelled", "")
		} else if !finalization.CancellationReason(req.CancellationReason).IsValid() {
			sl.ReportError(req.CancellationReason, "cancellation_reason", "CancellationReason", "unknown_reason", "")
		}
	} else if req.CancellationReason != "" {
		sl.ReportError(req.CancellationReason, "cancellation_reason", "CancellationReason", "only_for_cancelled", "")
	}

	if req.PaymentMethod == "card" {
		if req.CardInstallments == 0 {
			sl.ReportError(req.CardInstallments, "card_installments", "CardInstallments", "required_for_card", "")
		}
	} else {
		if req.CardInstallments != 0 {
			sl.ReportError(req.CardInstallments, "card_installments", "CardInstallments", "only_for_card", "")
		}
		if req.CardInterestPercent != 0 {
			sl.ReportError(req.CardInterestPercent, "card_interest_percent", "CardInterestPercent", "only_for_card", "")
		}
	}

	if req.ProductDelivered && req.TargetStatus == "cancelled" {
		sl.ReportError(req.ProductDelivered, "product_delivered", "ProductDelivered", "delivered_on_cancelled", "")
	}

	if req.CustomerWalkedAway && !cancelled {
		sl.ReportError(req.CustomerWalkedAway, "customer_walked_away", "CustomerWalkedAway", "only_for_cancelled", "")
	}
}

func quoteStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(QuoteRequest)

	if req.PaymentMethod == "card" && req.CardInstallments == 0 {
		sl.ReportError(req.CardInstallments, "card_installments", "CardInstallments", "required_for_card", "")
	}
	if req.PaymentMethod != "card" && req.CardInstallments != 0 {
		sl.ReportError(req.CardInstallments, "card_installments", "CardInstallments", "only_for_card", "")
	}
}
