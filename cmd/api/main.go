package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/opticflow/order-finalization/internal/aws"
	"github.com/opticflow/order-finalization/internal/handlers"
	"github.com/opticflow/order-finalization/internal/orderapi"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterFinalizationRoutes(r, cfg)

	return r
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	svcCfg := aws.LoadServiceConfig()
	if svcCfg.OrderServiceURL == "" {
		log.Fatal("ORDER_SERVICE_URL must be set")
	}

	orderClient := orderapi.NewClient(svcCfg.OrderServiceURL, &http.Client{Timeout: 15 * time.Second})

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		OrderService:     orderClient,
		IdempotencyTable: svcCfg.IdempotencyTable,
		ReceiptsTable:    svcCfg.ReceiptsTable,
		QueueURL:         svcCfg.QueueURL,
		TTLWindow:        svcCfg.TTLWindow,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
