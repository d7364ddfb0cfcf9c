package payment

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAmountOwed_CardAppliesInterest(t *testing.T) {
	got := AmountOwed(MethodCard, dec("100"), dec("10"))
	if !got.Equal(dec("110")) {
		t.Fatalf("expected 110, got %s", got)
	}
}

func TestAmountOwed_NonCardIgnoresInterest(t *testing.T) {
	for _, m := range []Method{MethodCash, MethodPix} {
		got := AmountOwed(m, dec("100"), dec("37.5"))
		if !got.Equal(dec("100")) {
			t.Errorf("method %s: expected 100, got %s", m, got)
		}
	}
}

func TestAmountOwed_ZeroInterestCard(t *testing.T) {
	got := AmountOwed(MethodCard, dec("250.40"), decimal.Zero)
	if !got.Equal(dec("250.40")) {
		t.Fatalf("expected 250.40, got %s", got)
	}
}

func TestChange(t *testing.T) {
	cases := []struct {
		paid, owed, want string
	}{
		{"150", "100", "50"},
		{"100", "100", "0"},
		{"99", "100", "0"}, // never negative
	}
	for _, c := range cases {
		got := Change(dec(c.paid), dec(c.owed))
		if !got.Equal(dec(c.want)) {
			t.Errorf("Change(%s, %s) = %s, want %s", c.paid, c.owed, got, c.want)
		}
	}
}

func TestCompute_CardQuote(t *testing.T) {
	// order 450.00, 5% interest over 3 installments
	q, err := Compute(MethodCard, dec("450.00"), dec("5"), 3, dec("472.50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.AmountOwed.Equal(dec("472.50")) {
		t.Fatalf("amount owed: expected 472.50, got %s", q.AmountOwed)
	}
	if !q.InterestAmount.Equal(dec("22.50")) {
		t.Fatalf("interest: expected 22.50, got %s", q.InterestAmount)
	}
	if !q.InstallmentAmount.Equal(dec("157.50")) {
		t.Fatalf("installment: expected 157.50, got %s", q.InstallmentAmount)
	}
	if !q.Change.Equal(decimal.Zero) {
		t.Fatalf("change: expected 0, got %s", q.Change)
	}
}

func TestCompute_RoundsAtBoundaryOnly(t *testing.T) {
	// 100.01 at 3.333% owes 103.34333...; rounding happens once, in the quote.
	q, err := Compute(MethodCard, dec("100.01"), dec("3.333"), 1, dec("0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.AmountOwed.Equal(dec("103.34")) {
		t.Fatalf("expected 103.34, got %s", q.AmountOwed)
	}
	// exact (unrounded) value still carries the full fraction
	exact := AmountOwed(MethodCard, dec("100.01"), dec("3.333"))
	if exact.Equal(q.AmountOwed) {
		t.Fatal("expected exact amount to differ from the rounded quote")
	}
}

func TestCompute_CashQuoteHasNoInstallments(t *testing.T) {
	q, err := Compute(MethodCash, dec("80"), decimal.Zero, 0, dec("100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Installments != 0 || !q.InstallmentAmount.Equal(decimal.Zero) {
		t.Fatalf("expected no installment fields, got %+v", q)
	}
	if !q.Change.Equal(dec("20")) {
		t.Fatalf("change: expected 20, got %s", q.Change)
	}
}

func TestCompute_RejectsUnknownMethod(t *testing.T) {
	if _, err := Compute(Method("check"), dec("10"), decimal.Zero, 0, dec("10")); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestCompute_RejectsNegativeInterest(t *testing.T) {
	if _, err := Compute(MethodCard, dec("10"), dec("-1"), 1, dec("10")); err == nil {
		t.Fatal("expected error for negative interest")
	}
}

func TestCompute_RejectsUnofferedInstallments(t *testing.T) {
	for _, n := range []int{0, 7, 8, 9, 11, 13, -1} {
		if _, err := Compute(MethodCard, dec("10"), decimal.Zero, n, dec("10")); err == nil {
			t.Errorf("expected error for %d installments", n)
		}
	}
}

func TestValidInstallments(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 6, 10, 12} {
		if !ValidInstallments(n) {
			t.Errorf("expected %d to be offered", n)
		}
	}
	if ValidInstallments(7) {
		t.Error("7 installments should not be offered")
	}
}
