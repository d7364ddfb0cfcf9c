package validation

import "testing"

func validFinalize() FinalizeOrderRequest {
	return FinalizeOrderRequest{
		TargetStatus:        "completed",
		PaymentMethod:       "card",
		CardInstallments:    3,
		CardInterestPercent: 5,
		TotalPaid:           472.50,
		ProductDelivered:    true,
	}
}

func TestFinalizeOrderRequest_Valid(t *testing.T) {
	v := New()
	if err := v.Struct(validFinalize()); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestFinalizeOrderRequest_CancelledRequiresReason(t *testing.T) {
	v := New()

	req := validFinalize()
	req.TargetStatus = "cancelled"
	req.ProductDelivered = false
	req.CancellationReason = ""

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for cancelled without reason, got nil")
	}

	req.CancellationReason = "no_money"
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid with reason, got: %v", err)
	}
}

func TestFinalizeOrderRequest_ReasonOnlyWhenCancelled(t *testing.T) {
	v := New()

	req := validFinalize()
	req.CancellationReason = "price"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for reason on a non-cancelled target")
	}
}

func TestFinalizeOrderRequest_UnknownReason(t *testing.T) {
	v := New()

	req := validFinalize()
	req.TargetStatus = "cancelled"
	req.ProductDelivered = false
	req.CancellationReason = "bad_weather"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for unknown cancellation reason")
	}
}

func TestFinalizeOrderRequest_CardNeedsInstallments(t *testing.T) {
	v := New()

	req := validFinalize()
	req.CardInstallments = 0
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for card without installments")
	}
}

func TestFinalizeOrderRequest_InstallmentsWhitelist(t *testing.T) {
	v := New()

	req := validFinalize()
	req.CardInstallments = 7
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for 7 installments")
	}

	req.CardInstallments = 12
	if err := v.Struct(req); err != nil {
		t.Fatalf("12 installments should be offered, got: %v", err)
	}
}

func TestFinalizeOrderRequest_CardFieldsForbiddenForCash(t *testing.T) {
	v := New()

	req := validFinalize()
	req.PaymentMethod = "cash"
	// stale card fields from the form must be rejected, not silently dropped
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for card fields on a cash payment")
	}

	req.CardInstallments = 0
	req.CardInterestPercent = 0
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid cash request, got: %v", err)
	}
}

func TestFinalizeOrderRequest_DeliveredOnCancelled(t *testing.T) {
	v := New()

	req := validFinalize()
	req.TargetStatus = "cancelled"
	req.CancellationReason = "other"
	req.ProductDelivered = true
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for delivered product on a cancelled order")
	}
}

func TestFinalizeOrderRequest_WalkedAwayOnlyWithCancellation(t *testing.T) {
	v := New()

	req := validFinalize()
	req.CustomerWalkedAway = true
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for walked-away on a non-cancelled target")
	}
}

func TestQuoteRequest(t *testing.T) {
	v := New()

	q := QuoteRequest{PaymentMethod: "card", CardInstallments: 10, CardInterestPercent: 3, TotalPaid: 100}
	if err := v.Struct(q); err != nil {
		t.Fatalf("expected valid quote request, got: %v", err)
	}

	q.CardInstallments = 0
	if err := v.Struct(q); err == nil {
		t.Fatal("expected validation error for card quote without installments")
	}

	q = QuoteRequest{PaymentMethod: "pix", TotalPaid: 100}
	if err := v.Struct(q); err != nil {
		t.Fatalf("expected valid pix quote, got: %v", err)
	}
}
