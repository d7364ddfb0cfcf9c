package main

// FinalizedMessage is the payload sent from API -> SQS -> Worker after an
// order is finalized.
type FinalizedMessage struct {
	ReceiptID      string  `json:"receipt_id"`
	OrderID        string  `json:"order_id"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"payment_method"`
	AmountOwed     float64 `json:"amount_owed"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
	CorrelationID  string  `json:"correlation_id,omitempty"`
}
