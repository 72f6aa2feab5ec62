package models

import "github.com/shopspring/decimal"

// Settlement is a recorded direct payment between two entities, reducing
// what the paying entity owes the receiving one.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// TripID is the trip this settlement belongs to.
	TripID string `json:"trip_id"`

	// FromEntityID is the entity that paid (debtor settling up).
	FromEntityID string `json:"from_entity_id"`

	// ToEntityID is the entity that received payment (creditor being paid).
	ToEntityID string `json:"to_entity_id"`

	// Amount is the payment amount in Currency.
	Amount decimal.Decimal `json:"amount"`

	// Currency is the ISO 4217 code the payment was made in.
	Currency string `json:"currency"`

	// Date is the Unix timestamp of when the payment happened.
	Date int64 `json:"date"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by"`
}
