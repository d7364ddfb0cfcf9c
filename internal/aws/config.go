package aws

import (
	"context"
	"fmt"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // default fallback
	}

	var cfg sdkaws.Config
	var err error

	cfg, err = config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)

	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// ServiceConfig carries the environment-driven settings both binaries need.
type ServiceConfig struct {
	IdempotencyTable string
	ReceiptsTable    string
	QueueURL         string
	OrderServiceURL  string
	MetricNamespace  string
	TTLWindow        time.Duration
}

// LoadServiceConfig reads settings from the environment. Only the fields a
// given binary uses need to be set; missing values are left empty for the
// caller to reject.
func LoadServiceConfig() ServiceConfig {
	cfg := ServiceConfig{
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		ReceiptsTable:    os.Getenv("RECEIPTS_TABLE"),
		QueueURL:         os.Getenv("FINALIZED_QUEUE_URL"),
		OrderServiceURL:  os.Getenv("ORDER_SERVICE_URL"),
		MetricNamespace:  os.Getenv("METRIC_NAMESPACE"),
		TTLWindow:        48 * time.Hour,
	}
	if cfg.MetricNamespace == "" {
		cfg.MetricNamespace = "OrderFinalization"
	}
	return cfg
}
