package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// FinalizationEvent is the message published after an order is finalized.
// The worker consumes it to report metrics and mark the receipt.
type FinalizationEvent struct {
	ReceiptID      string  `json:"receipt_id"`
	OrderID        string  `json:"order_id"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"payment_method"`
	AmountOwed     float64 `json:"amount_owed"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
	CorrelationID  string  `json:"correlation_id,omitempty"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// SendFinalizationEvent publishes ev to the finalization queue. Receipt id,
// order id and status ride along as message attributes so consumers can
// filter without unmarshalling the body.
func (p *Publisher) SendFinalizationEvent(ctx context.Context, ev FinalizationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	bodyStr := string(body)

	attrs := map[string]sqstypes.MessageAttributeValue{}
	for k, v := range map[string]string{
		"receipt_id": ev.ReceiptID,
		"order_id":   ev.OrderID,
		"status":     ev.Status,
	} {
		if v == "" {
			continue
		}
		v := v
		attrs[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: &v,
		}
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          &p.QueueURL,
		MessageBody:       &bodyStr,
		MessageAttributes: attrs,
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
