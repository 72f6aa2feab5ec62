package models

import "github.com/shopspring/decimal"

// Tracking modes for a trip. In individuals mode balances are computed per
// participant; in families mode participants attached to a family are
// folded into one family entity.
const (
	TrackingIndividuals = "individuals"
	TrackingFamilies    = "families"
)

// Trip is one shared ledger: a roster of people, a stream of expenses and
// settlements, and the currency configuration used to aggregate them.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `json:"id"`

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string `json:"name"`

	// TrackingMode is either TrackingIndividuals or TrackingFamilies.
	TrackingMode string `json:"tracking_mode"`

	// DefaultCurrency is the ISO 4217 code all balances are reported in.
	DefaultCurrency string `json:"default_currency"`

	// ExchangeRates maps a foreign currency code to units of
	// DefaultCurrency per one unit of that currency. Rates are supplied by
	// the trip owner; nothing is fetched.
	ExchangeRates map[string]decimal.Decimal `json:"exchange_rates,omitempty"`

	// CreatedBy is the user ID of the trip creator.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64 `json:"created_at"`
}
