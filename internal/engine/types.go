// Package engine computes trip balances and settlement plans.
//
// The engine is a pure library: every function is a stateless computation
// over its arguments, safe to call concurrently with different snapshots.
// It performs no I/O and no logging. Monetary values are decimal.Decimal
// throughout to keep share sums exact under repeated division.
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the canonical "settled" tolerance: balances within Epsilon of
// zero produce no settlement transactions and classify as settled. The
// aggregator, optimizer, and presentation helpers all share this value so
// the UI never shows a debt the optimizer refuses to collect.
var Epsilon = decimal.New(1, -2) // 0.01

// TrackingMode selects whether balances are computed per individual
// participant or per family unit.
type TrackingMode string

const (
	TrackIndividuals TrackingMode = "individuals"
	TrackFamilies    TrackingMode = "families"
)

// SplitMode describes how a distribution's total is divided among its
// entities.
type SplitMode string

const (
	// SplitEqual divides the amount evenly across the included entities
	// (optionally weighted by family size). This is the default when a
	// distribution carries no explicit mode.
	SplitEqual SplitMode = "equal"

	// SplitPercentage assigns each entity amount × declared% / 100.
	SplitPercentage SplitMode = "percentage"

	// SplitAmount assigns each entity its declared literal amount.
	SplitAmount SplitMode = "amount"
)

// DistributionKind tags which entity classes a distribution includes.
type DistributionKind string

const (
	DistIndividuals DistributionKind = "individuals"
	DistFamilies    DistributionKind = "families"
	DistMixed       DistributionKind = "mixed"
)

// Participant is one person on the trip roster. FamilyID is empty for
// participants not attached to a family.
type Participant struct {
	ID       string
	Name     string
	FamilyID string
}

// Family is a household unit on the roster. Member count for size-weighted
// splits is Adults + Children.
type Family struct {
	ID       string
	Name     string
	Adults   int
	Children int
}

// Roster is the set of entities a computation runs over. Lookups against a
// roster are by ID; IDs absent from the roster contribute nothing.
type Roster struct {
	Participants []Participant
	Families     []Family
}

// Distribution describes which entities share an expense and how. Kind tags
// the variant; only the fields for that variant are meaningful. The value
// slices are parallel to the ID slices and carry per-entity percentages or
// literal amounts for the non-equal split modes.
type Distribution struct {
	Kind      DistributionKind
	SplitMode SplitMode

	ParticipantIDs    []string
	ParticipantValues []decimal.Decimal

	FamilyIDs    []string
	FamilyValues []decimal.Decimal

	// AccountForFamilySize weights an equal split by each family's member
	// count instead of treating every entity as one unit.
	AccountForFamilySize bool
}

// Expense is a single shared expense in its original currency.
type Expense struct {
	ID           string
	Amount       decimal.Decimal
	Currency     string
	PaidBy       string // participant ID of the payer
	Distribution Distribution
	Date         time.Time
}

// Settlement is a recorded direct payment from one entity to another,
// reducing what From owes To.
type Settlement struct {
	ID       string
	From     string // entity ID
	To       string // entity ID
	Amount   decimal.Decimal
	Currency string
}

// Rates maps a currency code to units of the trip's default currency per
// one unit of that currency. Converting into the default currency is a
// multiplication by the rate; the default currency itself needs no entry.
type Rates map[string]decimal.Decimal

// EntityBalance is one entity's aggregated position.
// Balance = TotalPaid − TotalShare, adjusted by settlements, so it reflects
// the amount still owed (negative) or due (positive) at the time of the
// call.
type EntityBalance struct {
	ID         string
	Name       string
	IsFamily   bool
	TotalPaid  decimal.Decimal
	TotalShare decimal.Decimal
	Balance    decimal.Decimal
}

// Transaction is one payment in a settlement plan.
type Transaction struct {
	FromID       string
	ToID         string
	FromName     string
	ToName       string
	Amount       decimal.Decimal
	FromIsFamily bool
	ToIsFamily   bool
}

// Plan is the minimal set of payments that zeroes out a balance sheet.
type Plan struct {
	Transactions      []Transaction
	TotalTransactions int
	Currency          string
}

func (r *Roster) participantByID(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (r *Roster) familyByID(id string) (Family, bool) {
	for _, f := range r.Families {
		if f.ID == id {
			return f, true
		}
	}
	return Family{}, false
}

// entityByID resolves an entity ID against the roster, checking families
// first since family and participant IDs live in one ID space.
func (r *Roster) entityByID(id string) (name string, isFamily bool, ok bool) {
	if f, found := r.familyByID(id); found {
		return f.Name, true, true
	}
	if p, found := r.participantByID(id); found {
		return p.Name, false, true
	}
	return "", false, false
}

// payerEntity maps an expense's paying participant to the entity credited
// with the payment: the participant's family in families mode, the
// participant itself otherwise.
func (r *Roster) payerEntity(participantID string, mode TrackingMode) (id, name string, isFamily, ok bool) {
	p, found := r.participantByID(participantID)
	if !found {
		return "", "", false, false
	}
	if mode == TrackFamilies && p.FamilyID != "" {
		if f, found := r.familyByID(p.FamilyID); found {
			return f.ID, f.Name, true, true
		}
	}
	return p.ID, p.Name, false, true
}
