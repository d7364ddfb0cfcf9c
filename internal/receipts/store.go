package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/opticflow/order-finalization/internal/aws"
)

// Store encapsulates operations on the receipts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new receipts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// ErrStateMismatch is returned when a conditional state update finds the
// receipt in a different state than expected.
var ErrStateMismatch = errors.New("receipt state mismatch/conditional failed")

// Create writes a new receipt. ReceiptID must be set by the caller; the
// conditional put makes a duplicate receipt id an error rather than an
// overwrite.
func (s *Store) Create(ctx context.Context, r Receipt) error {
	now := s.nowFunc()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.State == "" {
		r.State = StateRecorded
	}

	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(receipt_id)"),
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return fmt.Errorf("receipt %s already exists: %w", r.ReceiptID, err)
		}
		return fmt.Errorf("put receipt: %w", err)
	}
	return nil
}

// Get fetches a receipt by receipt_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, receiptID string) (*Receipt, error) {
	key := map[string]types.AttributeValue{
		"receipt_id": &types.AttributeValueMemberS{Value: receiptID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r Receipt
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &r, nil
}

// MarkReported conditionally moves a receipt RECORDED -> REPORTED. Returns
// ErrStateMismatch when the receipt is not in RECORDED, which lets the worker
// swallow duplicate events.
func (s *Store) MarkReported(ctx context.Context, receiptID string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"receipt_id": &types.AttributeValueMemberS{Value: receiptID},
		},
		UpdateExpression:         awsString("SET #st = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#st": "state"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: StateReported},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: StateRecorded},
		},
		ConditionExpression: awsString("#st = :expected"),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStateMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// IncrementAttempts increases the attempts counter by 1 (useful for worker retries)
func (s *Store) IncrementAttempts(ctx context.Context, receiptID string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"receipt_id": &types.AttributeValueMemberS{Value: receiptID},
		},
		UpdateExpression:          awsString("SET attempts = if_not_exists(attempts, :zero) + :inc, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":zero": &types.AttributeValueMemberN{Value: "0"}, ":inc": &types.AttributeValueMemberN{Value: "1"}, ":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	}
	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
