package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceBalanceDue(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		paid     string
		expected string
	}{
		{"unpaid", "1000", "0", "1000"},
		{"partially paid", "1000", "399.50", "600.50"},
		{"fully paid", "1000", "1000", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			invoice := Invoice{
				Amount:     decimal.RequireFromString(tc.amount),
				PaidAmount: decimal.RequireFromString(tc.paid),
			}
			assert.True(t, invoice.BalanceDue().Equal(decimal.RequireFromString(tc.expected)),
				"expected %s, got %s", tc.expected, invoice.BalanceDue())
		})
	}
}

func TestInvoiceRecomputeAmount(t *testing.T) {
	invoice := Invoice{Amount: decimal.RequireFromString("99")}

	invoice.RecomputeAmount([]FeeParticular{
		{ParticularID: "p1", Amount: decimal.RequireFromString("500")},
		{ParticularID: "p2", Amount: decimal.RequireFromString("250.25")},
	})
	assert.True(t, invoice.Amount.Equal(decimal.RequireFromString("750.25")))

	invoice.RecomputeAmount(nil)
	assert.True(t, invoice.Amount.IsZero(), "empty narration must zero the amount")
}
