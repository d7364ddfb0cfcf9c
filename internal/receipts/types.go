package receipts

import "time"

// Receipt states. A receipt is RECORDED when the finalization succeeds and
// REPORTED once the worker has emitted its metrics.
const (
	StateRecorded = "RECORDED"
	StateReported = "REPORTED"
)

// Receipt is the record of one successful finalization, stored in the
// receipts DynamoDB table. It is an audit artifact: the order itself lives in
// the external order service.
type Receipt struct {
	ReceiptID           string    `dynamodbav:"receipt_id"` // PK
	OrderID             string    `dynamodbav:"order_id"`
	OrderNumber         string    `dynamodbav:"order_number,omitempty"`
	State               string    `dynamodbav:"state"` // RECORDED | REPORTED
	TargetStatus        string    `dynamodbav:"target_status"`
	PaymentMethod       string    `dynamodbav:"payment_method"`
	CardInstallments    int       `dynamodbav:"card_installments,omitempty"`
	CardInterestPercent float64   `dynamodbav:"card_interest_percent,omitempty"`
	AmountOwed          float64   `dynamodbav:"amount_owed"`
	TotalPaid           float64   `dynamodbav:"total_paid"`
	Change              float64   `dynamodbav:"change,omitempty"`
	ProductDelivered    bool      `dynamodbav:"product_delivered"`
	CancellationReason  string    `dynamodbav:"cancellation_reason,omitempty"`
	Observations        string    `dynamodbav:"observations,omitempty"`
	CreatedAt           time.Time `dynamodbav:"created_at"`
	UpdatedAt           time.Time `dynamodbav:"updated_at"`
	Attempts            int       `dynamodbav:"attempts,omitempty"`
}
