package orderapi

import (
	"time"

	"github.com/opticflow/order-finalization/internal/status"
)

// Order is the record owned by the external order service. This service only
// reads it; the one write it ever performs is the finalization update.
type Order struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"` // human-facing display number
	Status      status.Status `json:"status"`
	TotalAmount float64       `json:"total_amount"`
	ClientID    string        `json:"client_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at,omitempty"`
}

// UpdateOrderRequest is the finalization payload sent to the order service's
// update endpoint. Field presence rules: card_* only for card payments,
// cancellation_reason only when status is cancelled.
type UpdateOrderRequest struct {
	Status              status.Status `json:"status"`
	PaymentMethod       string        `json:"payment_method"`
	CardInstallments    int           `json:"card_installments,omitempty"`
	CardInterestPercent float64       `json:"card_interest_percent,omitempty"`
	TotalPaid           float64       `json:"total_paid"`
	ProductDelivered    bool          `json:"product_delivered"`
	CancellationReason  string        `json:"cancellation_reason,omitempty"`
	Observations        string        `json:"observations,omitempty"`
}

// errorResponse is the error object the order service returns on non-2xx.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
