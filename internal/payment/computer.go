package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Method is how the customer settles the order.
type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
	MethodPix  Method = "pix"
)

// IsValid reports whether m is a known payment method.
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodPix:
		return true
	}
	return false
}

// allowedInstallments is the set of installment plans the card acquirer
// offers. 7-9 and 11 are not sold.
var allowedInstallments = map[int]bool{
	1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 10: true, 12: true,
}

// ValidInstallments reports whether n is an installment count the acquirer
// accepts.
func ValidInstallments(n int) bool {
	return allowedInstallments[n]
}

var hundred = decimal.NewFromInt(100)

// AmountOwed computes what the customer must pay for an order.
//
// Card payments carry interest: total + total*interestPercent/100. Cash and
// pix pay the base total; interest is ignored for them. The result is exact
// (unrounded) so repeated reads never compound rounding error — round with
// Round(2) at the display/submission boundary only.
func AmountOwed(method Method, total, interestPercent decimal.Decimal) decimal.Decimal {
	if method != MethodCard {
		return total
	}
	return total.Add(total.Mul(interestPercent).Div(hundred))
}

// Change returns totalPaid - amountOwed when positive, zero otherwise. Zero
// means no change is shown to the operator.
func Change(totalPaid, amountOwed decimal.Decimal) decimal.Decimal {
	diff := totalPaid.Sub(amountOwed)
	if diff.IsPositive() {
		return diff
	}
	return decimal.Zero
}

// Quote is the payment preview for a finalization form, rounded to the
// currency's minor unit.
type Quote struct {
	Method            Method          `json:"payment_method"`
	AmountOwed        decimal.Decimal `json:"amount_owed"`
	InterestAmount    decimal.Decimal `json:"interest_amount"`
	Installments      int             `json:"installments,omitempty"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	Change            decimal.Decimal `json:"change"`
}

// Compute derives the full quote for one payment entry. installments is only
// meaningful for card and must be in the acquirer's plan set; for cash/pix it
// is ignored. All returned amounts are rounded to 2 decimal places here, at
// the boundary.
func Compute(method Method, total, interestPercent decimal.Decimal, installments int, totalPaid decimal.Decimal) (Quote, error) {
	if !method.IsValid() {
		return Quote{}, fmt.Errorf("unknown payment method %q", method)
	}
	if interestPercent.IsNegative() {
		return Quote{}, fmt.Errorf("negative interest percent %s", interestPercent)
	}

	q := Quote{Method: method}

	owed := AmountOwed(method, total, interestPercent)
	q.AmountOwed = owed.Round(2)
	q.Change = Change(totalPaid, owed).Round(2)

	if method == MethodCard {
		if !ValidInstallments(installments) {
			return Quote{}, fmt.Errorf("installment count %d is not offered", installments)
		}
		q.Installments = installments
		q.InterestAmount = owed.Sub(total).Round(2)
		q.InstallmentAmount = owed.Div(decimal.NewFromInt(int64(installments))).Round(2)
	}

	return q, nil
}
