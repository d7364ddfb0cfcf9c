package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/opticflow/order-finalization/internal/aws"
	"github.com/opticflow/order-finalization/internal/receipts"
)

// Processor handles finalization events: it reports metrics for each
// finalized order and marks the receipt as reported, exactly once.
type Processor struct {
	receiptStore *receipts.Store
	metrics      *aws.MetricsEmitter
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, receiptsTable, metricNamespace string) *Processor {
	return &Processor{
		receiptStore: receipts.NewStore(clients.DynamoDB, receiptsTable),
		metrics:      aws.NewMetricsEmitter(clients.CloudWatch, metricNamespace),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg FinalizedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received receipt=%s order=%s status=%s corr=%s",
		msg.ReceiptID, msg.OrderID, msg.Status, msg.CorrelationID)

	// Step 1: Load the receipt the API wrote
	rcpt, err := p.receiptStore.Get(ctx, msg.ReceiptID)
	if err != nil {
		return fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if rcpt == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("receipt not found: %s", msg.ReceiptID)
	}

	// Step 2: Skip duplicates. Redelivered messages find the receipt already
	// REPORTED and are swallowed.
	if rcpt.State == receipts.StateReported {
		log.Printf("[worker] receipt=%s already reported", msg.ReceiptID)
		return nil
	}

	if err := p.receiptStore.IncrementAttempts(ctx, msg.ReceiptID); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	// Step 3: Emit metrics for the finalized order
	if err := p.metrics.EmitFinalized(ctx, rcpt.TargetStatus, rcpt.PaymentMethod, rcpt.AmountOwed); err != nil {
		return fmt.Errorf("failed to emit metrics: %w", err)
	}

	// Step 4: Mark the receipt RECORDED -> REPORTED. A losing race with a
	// concurrent worker is a duplicate, not a failure.
	if err := p.receiptStore.MarkReported(ctx, msg.ReceiptID); err != nil {
		if err == receipts.ErrStateMismatch {
			log.Printf("[worker] receipt=%s reported by a competing worker", msg.ReceiptID)
			return nil
		}
		return fmt.Errorf("failed to mark receipt reported: %w", err)
	}

	log.Printf("[worker] reported receipt=%s order=%s", msg.ReceiptID, msg.OrderID)
	return nil
}
