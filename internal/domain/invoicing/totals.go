package invoicing

import (
	"github.com/shopspring/decimal"
)

// Status is the settlement status derived from the balance
type Status string

const (
	StatusCredit Status = "CREDIT"
	StatusPaid   Status = "PAID"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusCredit || s == StatusPaid
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Totals holds the invoice-level amounts.
//
//	Total         = Subtotal + CGSTTotal + SGSTTotal - DiscountTotal + Adjustment
//	BalanceAmount = Total - PaidAmount
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	CGSTTotal     decimal.Decimal
	SGSTTotal     decimal.Decimal
	Adjustment    decimal.Decimal
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceAmount decimal.Decimal
}

// Status returns CREDIT when a positive balance remains, otherwise PAID
func (t Totals) Status() Status {
	return StatusOf(t.BalanceAmount)
}

// TaxTotal returns CGSTTotal + SGSTTotal
func (t Totals) TaxTotal() decimal.Decimal {
	return t.CGSTTotal.Add(t.SGSTTotal)
}

// StatusOf maps a balance to its settlement status
func StatusOf(balance decimal.Decimal) Status {
	if balance.IsPositive() {
		return StatusCredit
	}
	return StatusPaid
}

// CalculateTotals recomputes every line amount and the invoice totals from
// scratch. The input slice is not modified; the returned slice carries the
// recomputed amounts in the original order. Calling it again on its own
// output yields identical results.
func CalculateTotals(items []LineItem, adjustment, paidAmount decimal.Decimal) ([]LineItem, Totals) {
	out := make([]LineItem, len(items))

	subtotal := decimal.Zero
	discountTotal := decimal.Zero
	cgstTotal := decimal.Zero
	sgstTotal := decimal.Zero

	for idx, item := range items {
		lineTotal := item.LineTotal()
		cgst := item.CGST()
		sgst := item.SGST()

		item.Amount = lineTotal.Add(cgst).Add(sgst).Sub(item.Discount)
		out[idx] = item

		subtotal = subtotal.Add(lineTotal)
		discountTotal = discountTotal.Add(item.Discount)
		cgstTotal = cgstTotal.Add(cgst)
		sgstTotal = sgstTotal.Add(sgst)
	}

	total := subtotal.Add(cgstTotal).Add(sgstTotal).Sub(discountTotal).Add(adjustment)

	return out, Totals{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		CGSTTotal:     cgstTotal,
		SGSTTotal:     sgstTotal,
		Adjustment:    adjustment,
		Total:         total,
		PaidAmount:    paidAmount,
		BalanceAmount: total.Sub(paidAmount),
	}
}
