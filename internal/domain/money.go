package domain

import "github.com/shopspring/decimal"

// currencyPlaces es la precisión monetaria (peniques).
const currencyPlaces = 2

// RoundCurrency redondea un importe a 2 decimales.
func RoundCurrency(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(currencyPlaces)
}

// SameAmount compara dos importes a precisión monetaria.
func SameAmount(a, b float64) bool {
	return RoundCurrency(a).Equal(RoundCurrency(b))
}
