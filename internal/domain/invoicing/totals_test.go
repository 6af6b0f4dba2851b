package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustItem(t *testing.T, name string, qty int64, rate, discount, cgst, sgst string) LineItem {
	t.Helper()
	item, err := NewLineItem(LineItemInput{
		Name:        name,
		Quantity:    qty,
		Rate:        d(rate),
		Discount:    d(discount),
		CGSTPercent: d(cgst),
		SGSTPercent: d(sgst),
	})
	require.NoError(t, err)
	return item
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "%s: expected %s, got %s", field, expected, actual.String())
}

func TestCalculateTotals_Scenarios(t *testing.T) {
	t.Run("single item with tax and discount leaves a credit balance", func(t *testing.T) {
		items := []LineItem{mustItem(t, "Widget", 2, "100", "10", "2.5", "2.5")}

		out, totals := CalculateTotals(items, decimal.Zero, decimal.Zero)

		require.Len(t, out, 1)
		assertDecimal(t, "200", out[0].LineTotal(), "lineTotal")
		assertDecimal(t, "5", out[0].CGST(), "cgst")
		assertDecimal(t, "5", out[0].SGST(), "sgst")
		assertDecimal(t, "200", out[0].Amount, "amount")
		assertDecimal(t, "200", totals.Subtotal, "subtotal")
		assertDecimal(t, "5", totals.CGSTTotal, "cgstTotal")
		assertDecimal(t, "5", totals.SGSTTotal, "sgstTotal")
		assertDecimal(t, "10", totals.DiscountTotal, "discountTotal")
		assertDecimal(t, "200", totals.Total, "total")
		assertDecimal(t, "200", totals.BalanceAmount, "balance")
		assert.Equal(t, StatusCredit, totals.Status())
	})

	t.Run("full payment settles to zero balance and PAID", func(t *testing.T) {
		items := []LineItem{mustItem(t, "Widget", 2, "100", "10", "2.5", "2.5")}

		_, totals := CalculateTotals(items, decimal.Zero, d("200"))

		assertDecimal(t, "0", totals.BalanceAmount, "balance")
		assert.Equal(t, StatusPaid, totals.Status())
	})

	t.Run("empty item list totals to the adjustment", func(t *testing.T) {
		out, totals := CalculateTotals(nil, d("50"), d("20"))

		assert.Empty(t, out)
		assertDecimal(t, "0", totals.Subtotal, "subtotal")
		assertDecimal(t, "50", totals.Total, "total")
		assertDecimal(t, "30", totals.BalanceAmount, "balance")
	})

	t.Run("negative adjustment acts as a discount", func(t *testing.T) {
		items := []LineItem{mustItem(t, "Service", 1, "100", "0", "0", "0")}

		_, totals := CalculateTotals(items, d("-15.50"), decimal.Zero)

		assertDecimal(t, "84.50", totals.Total, "total")
	})

	t.Run("overpayment yields negative balance reported as PAID", func(t *testing.T) {
		items := []LineItem{mustItem(t, "Service", 1, "100", "0", "0", "0")}

		_, totals := CalculateTotals(items, decimal.Zero, d("150"))

		assertDecimal(t, "-50", totals.BalanceAmount, "balance")
		assert.Equal(t, StatusPaid, totals.Status())
	})
}

func TestCalculateTotals_Invariants(t *testing.T) {
	items := []LineItem{
		mustItem(t, "A", 3, "19.99", "1.25", "9", "9"),
		mustItem(t, "B", 7, "0.10", "0", "2.5", "2.5"),
		mustItem(t, "C", 1, "12345.67", "100", "14", "14"),
		mustItem(t, "D", 0, "50", "0", "6", "6"),
	}

	t.Run("subtotal is independent of item order", func(t *testing.T) {
		reversed := make([]LineItem, len(items))
		for i := range items {
			reversed[len(items)-1-i] = items[i]
		}

		_, forward := CalculateTotals(items, decimal.Zero, decimal.Zero)
		_, backward := CalculateTotals(reversed, decimal.Zero, decimal.Zero)

		assert.True(t, forward.Subtotal.Equal(backward.Subtotal))
		assert.True(t, forward.Total.Equal(backward.Total))
		assert.True(t, forward.CGSTTotal.Equal(backward.CGSTTotal))
	})

	t.Run("subtotal equals the sum of quantity times rate", func(t *testing.T) {
		_, totals := CalculateTotals(items, decimal.Zero, decimal.Zero)

		expected := decimal.Zero
		for _, item := range items {
			expected = expected.Add(decimal.NewFromInt(item.Quantity).Mul(item.Rate))
		}
		assert.True(t, expected.Equal(totals.Subtotal))
	})

	t.Run("recomputing on its own output is idempotent", func(t *testing.T) {
		first, firstTotals := CalculateTotals(items, d("3.33"), d("10"))
		second, secondTotals := CalculateTotals(first, d("3.33"), d("10"))

		require.Len(t, second, len(first))
		for i := range first {
			assert.True(t, first[i].Amount.Equal(second[i].Amount))
		}
		assert.Equal(t, firstTotals.Total.String(), secondTotals.Total.String())
		assert.Equal(t, firstTotals.BalanceAmount.String(), secondTotals.BalanceAmount.String())
	})

	t.Run("stale amounts on input are ignored", func(t *testing.T) {
		tampered := make([]LineItem, len(items))
		copy(tampered, items)
		tampered[0].Amount = d("999999")

		out, _ := CalculateTotals(tampered, decimal.Zero, decimal.Zero)

		assert.True(t, items[0].Compute().Equal(out[0].Amount))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		input := []LineItem{mustItem(t, "A", 1, "10", "0", "0", "0")}
		input[0].Amount = d("1")

		CalculateTotals(input, decimal.Zero, decimal.Zero)

		assertDecimal(t, "1", input[0].Amount, "amount")
	})

	t.Run("total and balance satisfy their identities", func(t *testing.T) {
		_, totals := CalculateTotals(items, d("-2.5"), d("40"))

		expectedTotal := totals.Subtotal.Add(totals.CGSTTotal).Add(totals.SGSTTotal).Sub(totals.DiscountTotal).Add(totals.Adjustment)
		assert.True(t, expectedTotal.Equal(totals.Total))
		assert.True(t, totals.Total.Sub(totals.PaidAmount).Equal(totals.BalanceAmount))
	})

	t.Run("repeated cent-level sums do not drift", func(t *testing.T) {
		many := make([]LineItem, 0, 1000)
		for i := 0; i < 1000; i++ {
			many = append(many, mustItem(t, "Cent", 1, "0.01", "0", "0", "0"))
		}

		_, totals := CalculateTotals(many, decimal.Zero, decimal.Zero)

		assertDecimal(t, "10", totals.Subtotal, "subtotal")
	})
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		balance  string
		expected Status
	}{
		{"0.01", StatusCredit},
		{"0", StatusPaid},
		{"0.00", StatusPaid},
		{"-0.01", StatusPaid},
		{"1000", StatusCredit},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusOf(d(tt.balance)))
		})
	}
}
