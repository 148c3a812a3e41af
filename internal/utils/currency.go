package utils

import (
	"fmt"
)

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	// MinorUnits is the number of decimal digits in the minor unit.
	MinorUnits int `json:"minor_units"`
}

var SupportedCurrencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", MinorUnits: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", MinorUnits: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", MinorUnits: 2},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", MinorUnits: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", MinorUnits: 0},
	"BRL": {Code: "BRL", Symbol: "R$", Name: "Brazilian Real", MinorUnits: 2},
}

// FormatMinorUnits renders an integer minor-unit amount for display. All
// checkout arithmetic stays in minor units; floats appear only at the edge.
func FormatMinorUnits(amount int64, currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		currency = SupportedCurrencies[DefaultCurrency]
	}

	if currency.MinorUnits == 0 {
		return fmt.Sprintf("%s%d", currency.Symbol, amount)
	}

	divisor := int64(1)
	for i := 0; i < currency.MinorUnits; i++ {
		divisor *= 10
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	return fmt.Sprintf("%s%s%d.%0*d", sign, currency.Symbol, amount/divisor, currency.MinorUnits, amount%divisor)
}

func GetCurrencySymbol(currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		return "$"
	}
	return currency.Symbol
}

func ValidateCurrencyCode(code string) bool {
	_, exists := SupportedCurrencies[code]
	return exists
}
