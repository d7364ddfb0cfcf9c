package validation

// FinalizeOrderRequest is the payload for POST /orders/:id/finalize.
// Cross-field rules (reason iff cancelled, card fields iff card) live in the
// struct-level validation.
type FinalizeOrderRequest struct {
	TargetStatus        string  `json:"target_status" validate:"required,oneof=in_progress completed cancelled"`
	PaymentMethod       string  `json:"payment_method" validate:"required,oneof=cash card pix"`
	CardInstallments    int     `json:"card_installments" validate:"omitempty,oneof=1 2 3 4 5 6 10 12"`
	CardInterestPercent float64 `json:"card_interest_percent" validate:"gte=0"`
	TotalPaid           float64 `json:"total_paid" validate:"gte=0"`
	ProductDelivered    bool    `json:"product_delivered"`
	CustomerWalkedAway  bool    `json:"customer_walked_away"`           // force-cancel toggle
	CancellationReason  string  `json:"cancellation_reason,omitempty"`  // checked at struct level
	Observations        string  `json:"observations,omitempty"`
}

// QuoteRequest is the payload for POST /orders/:id/finalization/quote.
type QuoteRequest struct {
	PaymentMethod       string  `json:"payment_method" validate:"required,oneof=cash card pix"`
	CardInstallments    int     `json:"card_installments" validate:"omitempty,oneof=1 2 3 4 5 6 10 12"`
	CardInterestPercent float64 `json:"card_interest_percent" validate:"gte=0"`
	TotalPaid           float64 `json:"total_paid" validate:"gte=0"`
}
