package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes finalization metrics to CloudWatch.
type MetricsEmitter struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetricsEmitter returns an emitter publishing under the given namespace
// (e.g. "OrderFinalization").
func NewMetricsEmitter(client CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// EmitFinalized records one finalized order: a count metric and the amount
// owed, both dimensioned by target status and payment method.
func (m *MetricsEmitter) EmitFinalized(ctx context.Context, targetStatus, paymentMethod string, amountOwed float64) error {
	now := m.nowFunc()
	dims := []cwtypes.Dimension{
		{Name: awsString("Status"), Value: awsString(targetStatus)},
		{Name: awsString("PaymentMethod"), Value: awsString(paymentMethod)},
	}

	one := 1.0
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersFinalized"),
				Dimensions: dims,
				Timestamp:  &now,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
			},
			{
				MetricName: awsString("FinalizationAmount"),
				Dimensions: dims,
				Timestamp:  &now,
				Value:      &amountOwed,
				Unit:       cwtypes.StandardUnitNone,
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
