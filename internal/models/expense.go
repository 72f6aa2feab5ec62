package models

import "github.com/shopspring/decimal"

// Distribution kinds. A distribution names families, individuals, or both.
const (
	DistributionIndividuals = "individuals"
	DistributionFamilies    = "families"
	DistributionMixed       = "mixed"
)

// Split modes. An empty split mode means equal.
const (
	SplitEqual      = "equal"
	SplitPercentage = "percentage"
	SplitAmount     = "amount"
)

// Expense is a shared expense in its original currency. Expenses are
// immutable once recorded; corrections are a delete plus a new expense.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// TripID is the trip this expense belongs to.
	TripID string `json:"trip_id"`

	// Description is a short human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Amount is the expense total in Currency.
	Amount decimal.Decimal `json:"amount"`

	// Currency is the ISO 4217 code the expense was paid in, which may
	// differ from the trip's default currency.
	Currency string `json:"currency"`

	// PaidBy is the participant ID of the person who paid. In families
	// tracking mode the payment is credited to that participant's family.
	PaidBy string `json:"paid_by"`

	// Distribution describes who shares this expense and how.
	Distribution Distribution `json:"distribution"`

	// Date is the Unix timestamp of when the expense occurred.
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// Distribution is the rule describing which entities share an expense.
// Kind tags the variant; only the member lists for that variant are
// meaningful. Values carry per-entity percentages or literal amounts for
// the non-equal split modes and are ignored for equal splits.
type Distribution struct {
	Kind      string `json:"kind"`
	SplitMode string `json:"split_mode,omitempty"`

	// Participants and Families are the included entities with their
	// declared values.
	Participants []DistributionMember `json:"participants,omitempty"`
	Families     []DistributionMember `json:"families,omitempty"`

	// AccountForFamilySize weights an equal split by family member count.
	AccountForFamilySize bool `json:"account_for_family_size,omitempty"`
}

// DistributionMember is one included entity and its declared value
// (a percentage or a literal amount, depending on the split mode).
type DistributionMember struct {
	EntityID string          `json:"entity_id"`
	Value    decimal.Decimal `json:"value,omitempty"`
}
