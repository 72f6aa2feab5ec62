package engine

import "github.com/shopspring/decimal"

// BalanceStatus is the three-way classification of a balance used by
// balance displays.
type BalanceStatus string

const (
	StatusCreditor BalanceStatus = "creditor"
	StatusDebtor   BalanceStatus = "debtor"
	StatusSettled  BalanceStatus = "settled"
)

// Classify buckets a balance as creditor, debtor, or settled using the same
// Epsilon as the optimizer, so an entity the optimizer drops is always
// displayed as settled.
func Classify(balance decimal.Decimal) BalanceStatus {
	switch {
	case balance.GreaterThan(Epsilon):
		return StatusCreditor
	case balance.LessThan(Epsilon.Neg()):
		return StatusDebtor
	default:
		return StatusSettled
	}
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF ",
	"PLN": "zł ",
}

// FormatSigned renders a balance as a signed, currency-localized string,
// e.g. "+€50.00" or "-$12.30". Balances within Epsilon of zero render
// unsigned. Currencies without a known symbol fall back to "12.30 XXX".
func FormatSigned(amount decimal.Decimal, currency string) string {
	sign := ""
	switch Classify(amount) {
	case StatusCreditor:
		sign = "+"
	case StatusDebtor:
		sign = "-"
	}

	abs := amount.Abs().StringFixed(2)
	if symbol, ok := currencySymbols[currency]; ok {
		return sign + symbol + abs
	}
	return sign + abs + " " + currency
}
