package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"dollars and cents", 1250, "USD", "$12.50"},
		{"single cent padded", 5, "USD", "$0.05"},
		{"zero", 0, "USD", "$0.00"},
		{"negative", -499, "EUR", "-€4.99"},
		{"zero-decimal currency", 1200, "JPY", "¥1200"},
		{"unknown code falls back", 1250, "XXX", "$12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinorUnits(tt.amount, tt.currency))
		})
	}
}

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₹", GetCurrencySymbol("INR"))
	assert.Equal(t, "$", GetCurrencySymbol("XXX"))
}

func TestValidateCurrencyCode(t *testing.T) {
	assert.True(t, ValidateCurrencyCode("USD"))
	assert.True(t, ValidateCurrencyCode("GBP"))
	assert.False(t, ValidateCurrencyCode("usd"))
	assert.False(t, ValidateCurrencyCode(""))
}
