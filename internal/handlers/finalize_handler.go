package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opticflow/order-finalization/internal/aws"
	"github.com/opticflow/order-finalization/internal/finalization"
	"github.com/opticflow/order-finalization/internal/idempotency"
	"github.com/opticflow/order-finalization/internal/orderapi"
	"github.com/opticflow/order-finalization/internal/payment"
	"github.com/opticflow/order-finalization/internal/receipts"
	"github.com/opticflow/order-finalization/internal/status"
	"github.com/opticflow/order-finalization/internal/validation"
)

// HandlerConfig groups dependencies for the finalization handler.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	OrderService     orderapi.API
	IdempotencyTable string
	ReceiptsTable    string
	QueueURL         string
	TTLWindow        time.Duration
}

// RegisterFinalizationRoutes registers the finalization API.
func RegisterFinalizationRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	idempStore := idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow)
	receiptStore := receipts.NewStore(cfg.DynamoDBClient, cfg.ReceiptsTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	coordinator := finalization.NewCoordinator(cfg.OrderService)

	// Finalization context for the form: current status, reachable targets,
	// amount to collect.
	r.GET("/orders/:id/finalization", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("id")

		order, err := cfg.OrderService.GetOrder(ctx, orderID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "order_service_unavailable", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}

		targets := status.AllowedTargets(order.Status)
		// completion is offered on the form even for pending orders; the
		// submission redirects it through in_progress
		if order.Status == status.StatusPending {
			targets = append(targets, status.StatusCompleted)
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":        order.ID,
			"number":          order.Number,
			"status":          order.Status,
			"total_amount":    order.TotalAmount,
			"allowed_targets": targets,
			"terminal":        order.Status.IsTerminal(),
		})
	})

	// Payment preview. Pure computation; nothing is persisted or submitted.
	r.POST("/orders/:id/finalization/quote", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("id")

		var req validation.QuoteRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		order, err := cfg.OrderService.GetOrder(ctx, orderID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "order_service_unavailable", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}

		quote, err := payment.Compute(
			payment.Method(req.PaymentMethod),
			decimal.NewFromFloat(order.TotalAmount),
			decimal.NewFromFloat(req.CardInterestPercent),
			req.CardInstallments,
			decimal.NewFromFloat(req.TotalPaid),
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payment_entry", "msg": err.Error()})
			return
		}

		c.JSON(http.StatusOK, quoteJSON(quote))
	})

	r.POST("/orders/:id/finalize", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("id")

		var req validation.FinalizeOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		// Require idempotency key header
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		order, err := cfg.OrderService.GetOrder(ctx, orderID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "order_service_unavailable", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}

		finReq := toFinalizationRequest(req)

		// Local preconditions run before the idempotency key is reserved, so
		// a rejected form never burns the key.
		if err := finalization.Validate(order, finReq); err != nil {
			writeFinalizationError(c, err)
			return
		}

		created, err := idempStore.CreateIfNotExists(ctx, idempKey, orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
			return
		}
		if !created {
			replayDuplicate(c, idempStore, idempKey)
			return
		}

		res, err := coordinator.Submit(ctx, order, finReq)
		if err != nil {
			// the key stays reserved as FAILED so a same-key retry is
			// answered from the record, not re-submitted blind
			_ = idempStore.MarkFailed(ctx, idempKey, err.Error())
			writeFinalizationError(c, err)
			return
		}

		receiptID := uuid.NewString()
		rcpt := receipts.Receipt{
			ReceiptID:           receiptID,
			OrderID:             order.ID,
			OrderNumber:         order.Number,
			TargetStatus:        string(res.Sent.Status),
			PaymentMethod:       res.Sent.PaymentMethod,
			CardInstallments:    res.Sent.CardInstallments,
			CardInterestPercent: res.Sent.CardInterestPercent,
			AmountOwed:          res.Quote.AmountOwed.InexactFloat64(),
			TotalPaid:           res.Sent.TotalPaid,
			Change:              res.Quote.Change.InexactFloat64(),
			ProductDelivered:    res.Sent.ProductDelivered,
			CancellationReason:  res.Sent.CancellationReason,
			Observations:        res.Sent.Observations,
		}
		if err := receiptStore.Create(ctx, rcpt); err != nil {
			_ = idempStore.MarkFailed(ctx, idempKey, fmt.Sprintf("receipt_write_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt_write_failed", "detail": err.Error()})
			return
		}

		ev := aws.FinalizationEvent{
			ReceiptID:      receiptID,
			OrderID:        order.ID,
			Status:         string(res.Sent.Status),
			PaymentMethod:  res.Sent.PaymentMethod,
			AmountOwed:     rcpt.AmountOwed,
			IdempotencyKey: idempKey,
			CorrelationID:  c.GetHeader("X-Request-Id"),
		}
		if err := publisher.SendFinalizationEvent(ctx, ev); err != nil {
			// the order IS finalized at this point; the event is reporting
			// plumbing, so surface the failure without pretending rollback
			_ = idempStore.MarkFailed(ctx, idempKey, fmt.Sprintf("event_publish_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event_publish_failed", "detail": err.Error()})
			return
		}

		body := gin.H{
			"order":      res.Order,
			"receipt_id": receiptID,
			"quote":      quoteJSON(res.Quote),
		}
		responseBody, _ := json.Marshal(body)
		_ = idempStore.MarkDone(ctx, idempKey, receiptID, string(responseBody), http.StatusOK)

		c.JSON(http.StatusOK, body)
	})
}

// toFinalizationRequest maps the HTTP shape onto the domain request,
// collapsing status+delivered+reason into the single outcome value.
func toFinalizationRequest(req validation.FinalizeOrderRequest) finalization.Request {
	var outcome finalization.Outcome
	switch status.Status(req.TargetStatus) {
	case status.StatusCompleted:
		outcome = finalization.OutcomeCompleted(req.ProductDelivered)
	case status.StatusCancelled:
		outcome = finalization.OutcomeCancelled(finalization.CancellationReason(req.CancellationReason))
	default:
		outcome = finalization.OutcomeInProgress()
	}

	return finalization.Request{
		Method:          payment.Method(req.PaymentMethod),
		Installments:    req.CardInstallments,
		InterestPercent: decimal.NewFromFloat(req.CardInterestPercent),
		TotalPaid:       decimal.NewFromFloat(req.TotalPaid),
		Outcome:         outcome,
		WalkedAway:      req.CustomerWalkedAway,
		Observations:    req.Observations,
	}
}

// writeFinalizationError maps the error taxonomy to HTTP statuses: local
// validation kinds are the operator's to fix (422), an in-flight duplicate is
// a conflict, and remote failures are the collaborator's (502).
func writeFinalizationError(c *gin.Context, err error) {
	if err == finalization.ErrSubmissionInFlight {
		c.JSON(http.StatusConflict, gin.H{"error": "submission_in_flight"})
		return
	}
	kind := finalization.KindOf(err)
	switch kind {
	case finalization.KindInvalidTransition,
		finalization.KindInsufficientPayment,
		finalization.KindMissingCancellationReason:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(kind), "msg": err.Error()})
	case finalization.KindRemoteFailure:
		c.JSON(http.StatusBadGateway, gin.H{"error": string(kind), "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "finalization_failed", "msg": err.Error()})
	}
}

// replayDuplicate answers a request whose idempotency key already has a
// record: DONE replays the stored response, IN_PROGRESS reports 202, FAILED
// tells the client the previous attempt's fate.
func replayDuplicate(c *gin.Context, store *idempotency.Store, key string) {
	rec, err := store.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reservation_failed_no_record"})
		return
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID, "receipt_id": rec.ReceiptID})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress", "order_id": rec.OrderID})
	case idempotency.StatusFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed", "detail": rec.Note, "order_id": rec.OrderID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}

// quoteJSON renders a quote with plain JSON numbers, matching the wire format
// the rest of the API uses.
func quoteJSON(q payment.Quote) gin.H {
	out := gin.H{
		"payment_method":  q.Method,
		"amount_owed":     q.AmountOwed.InexactFloat64(),
		"interest_amount": q.InterestAmount.InexactFloat64(),
		"change":          q.Change.InexactFloat64(),
	}
	if q.Installments > 0 {
		out["installments"] = q.Installments
		out["installment_amount"] = q.InstallmentAmount.InexactFloat64()
	}
	return out
}
