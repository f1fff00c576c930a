package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyArrears(t *testing.T) {
	testCases := []struct {
		name     string
		arrears  string
		expected FeeStatusValue
	}{
		{"positive is overpaid", "150.75", StatusOverpaid},
		{"negative is not cleared", "-0.01", StatusNotCleared},
		{"zero is cleared", "0", StatusCleared},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyArrears(decimal.RequireFromString(tc.arrears)))
		})
	}
}
