package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equalSplit(ids ...string) Distribution {
	return Distribution{Kind: DistIndividuals, SplitMode: SplitEqual, ParticipantIDs: ids}
}

func balanceByID(t *testing.T, res Result, id string) EntityBalance {
	t.Helper()
	for _, b := range res.Balances {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("no balance for entity %s", id)
	return EntityBalance{}
}

func assertAmount(t *testing.T, got decimal.Decimal, want string, msg string) {
	t.Helper()
	assert.True(t, got.Sub(dec(want)).Abs().LessThan(Epsilon),
		"%s: got %s, want %s", msg, got, want)
}

func TestAggregateSingleExpense(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{{
			ID: "e1", Amount: dec("100"), Currency: "EUR", PaidBy: "p-alice",
			Distribution: equalSplit("p-alice", "p-bob"),
		}},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	alice := balanceByID(t, res, "p-alice")
	bob := balanceByID(t, res, "p-bob")
	assertAmount(t, alice.TotalPaid, "100", "Alice paid")
	assertAmount(t, alice.TotalShare, "50", "Alice share")
	assertAmount(t, alice.Balance, "50", "Alice balance")
	assertAmount(t, bob.Balance, "-50", "Bob balance")
	assertAmount(t, res.TotalExpenses, "100", "total expenses")

	require.NotNil(t, res.SuggestedPayer)
	assert.Equal(t, "p-bob", res.SuggestedPayer.ID)
}

func TestAggregateSettlementZeroesBalances(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{{
			ID: "e1", Amount: dec("100"), Currency: "EUR", PaidBy: "p-alice",
			Distribution: equalSplit("p-alice", "p-bob"),
		}},
		Settlements: []Settlement{{
			ID: "s1", From: "p-bob", To: "p-alice", Amount: dec("50"), Currency: "EUR",
		}},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	assertAmount(t, balanceByID(t, res, "p-alice").Balance, "0", "Alice balance")
	assertAmount(t, balanceByID(t, res, "p-bob").Balance, "0", "Bob balance")
	assert.Nil(t, res.SuggestedPayer, "everyone settled, nobody suggested")

	// Settlements net against the balance, not the paid/share totals.
	assertAmount(t, balanceByID(t, res, "p-bob").TotalPaid, "0", "Bob expense payments")
}

func TestAggregateThreeParticipants(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{
			{ID: "e1", Amount: dec("90"), Currency: "EUR", PaidBy: "p-alice",
				Distribution: equalSplit("p-alice", "p-bob", "p-carol")},
			{ID: "e2", Amount: dec("30"), Currency: "EUR", PaidBy: "p-bob",
				Distribution: equalSplit("p-alice", "p-bob", "p-carol")},
		},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	assertAmount(t, balanceByID(t, res, "p-alice").Balance, "50", "Alice balance")
	assertAmount(t, balanceByID(t, res, "p-bob").Balance, "-10", "Bob balance")
	assertAmount(t, balanceByID(t, res, "p-carol").Balance, "-40", "Carol balance")

	require.NotNil(t, res.SuggestedPayer)
	assert.Equal(t, "p-carol", res.SuggestedPayer.ID, "largest debtor pays next")
}

func TestAggregateConvertsCurrencies(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{{
			ID: "e1", Amount: dec("100"), Currency: "USD", PaidBy: "p-alice",
			Distribution: equalSplit("p-alice", "p-bob"),
		}},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
		Rates:           Rates{"USD": dec("0.9")},
	})

	assertAmount(t, res.TotalExpenses, "90", "total in default currency")
	assertAmount(t, balanceByID(t, res, "p-alice").TotalPaid, "90", "Alice paid in EUR")
	assertAmount(t, balanceByID(t, res, "p-alice").Balance, "45", "Alice balance")
	assertAmount(t, balanceByID(t, res, "p-bob").Balance, "-45", "Bob balance")
	assert.Empty(t, res.Skipped)
}

func TestAggregateSkipsMissingRates(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{
			{ID: "e-good", Amount: dec("100"), Currency: "EUR", PaidBy: "p-alice",
				Distribution: equalSplit("p-alice", "p-bob")},
			{ID: "e-bad", Amount: dec("500"), Currency: "THB", PaidBy: "p-bob",
				Distribution: equalSplit("p-alice", "p-bob")},
		},
		Settlements: []Settlement{
			{ID: "s-bad", From: "p-bob", To: "p-alice", Amount: dec("10"), Currency: "THB"},
		},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	// The unconvertible expense and settlement are flagged, not folded in
	// at an assumed 1:1 rate, and the rest of the sheet stays intact.
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "e-bad", res.Skipped[0].ID)
	assert.Equal(t, "s-bad", res.Skipped[1].ID)
	assertAmount(t, res.TotalExpenses, "100", "only convertible expenses counted")
	assertAmount(t, balanceByID(t, res, "p-alice").Balance, "50", "Alice balance")
}

func TestAggregateFamiliesMode(t *testing.T) {
	roster := testRoster()
	// Carol belongs to the Millers; her payment credits the family.
	res := Aggregate(AggregateInput{
		Expenses: []Expense{{
			ID: "e1", Amount: dec("200"), Currency: "EUR", PaidBy: "p-carol",
			Distribution: Distribution{
				Kind:                 DistFamilies,
				SplitMode:            SplitEqual,
				FamilyIDs:            []string{"f-miller", "f-singh"},
				AccountForFamilySize: true,
			},
		}},
		Roster:          roster,
		TrackingMode:    TrackFamilies,
		DefaultCurrency: "EUR",
	})

	millers := balanceByID(t, res, "f-miller")
	singhs := balanceByID(t, res, "f-singh")
	assert.True(t, millers.IsFamily)
	assertAmount(t, millers.TotalPaid, "200", "Millers paid via Carol")
	assertAmount(t, millers.TotalShare, "150", "Millers size-weighted share")
	assertAmount(t, millers.Balance, "50", "Millers balance")
	assertAmount(t, singhs.Balance, "-50", "Singhs balance")
}

func TestAggregateIgnoresUnknownEntities(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Expenses: []Expense{{
			ID: "e1", Amount: dec("100"), Currency: "EUR", PaidBy: "p-ghost",
			Distribution: equalSplit("p-alice", "p-ghost"),
		}},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	// The unknown payer and share-holder contribute nothing; Alice still
	// carries her share of the expense.
	require.Len(t, res.Balances, 1)
	assertAmount(t, balanceByID(t, res, "p-alice").TotalShare, "50", "Alice share")
}

func TestAggregateConservation(t *testing.T) {
	roster := testRoster()
	in := AggregateInput{
		Expenses: []Expense{
			{ID: "e1", Amount: dec("123.45"), Currency: "EUR", PaidBy: "p-alice",
				Distribution: equalSplit("p-alice", "p-bob", "p-carol")},
			{ID: "e2", Amount: dec("77"), Currency: "USD", PaidBy: "p-bob",
				Distribution: Distribution{
					Kind:              DistIndividuals,
					SplitMode:         SplitPercentage,
					ParticipantIDs:    []string{"p-alice", "p-bob"},
					ParticipantValues: []decimal.Decimal{dec("40"), dec("60")},
				}},
			{ID: "e3", Amount: dec("19.99"), Currency: "EUR", PaidBy: "p-carol",
				Distribution: equalSplit("p-carol", "p-dave")},
		},
		Settlements: []Settlement{
			{ID: "s1", From: "p-bob", To: "p-alice", Amount: dec("20"), Currency: "EUR"},
			{ID: "s2", From: "p-dave", To: "p-carol", Amount: dec("5"), Currency: "USD"},
		},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
		Rates:           Rates{"USD": dec("0.92")},
	}

	res := Aggregate(in)

	sum := decimal.Zero
	for _, b := range res.Balances {
		sum = sum.Add(b.Balance)
	}
	assert.True(t, sum.Abs().LessThan(Epsilon), "balances sum to %s, want ~0", sum)
}

func TestAggregateIdempotent(t *testing.T) {
	roster := testRoster()
	in := AggregateInput{
		Expenses: []Expense{
			{ID: "e1", Amount: dec("90"), Currency: "EUR", PaidBy: "p-alice",
				Distribution: equalSplit("p-alice", "p-bob", "p-carol")},
		},
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	}

	first := Aggregate(in)
	second := Aggregate(in)

	require.Equal(t, len(first.Balances), len(second.Balances))
	for i := range first.Balances {
		assert.Equal(t, first.Balances[i].ID, second.Balances[i].ID)
		assert.True(t, first.Balances[i].Balance.Equal(second.Balances[i].Balance))
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	roster := testRoster()
	res := Aggregate(AggregateInput{
		Roster:          roster,
		TrackingMode:    TrackIndividuals,
		DefaultCurrency: "EUR",
	})

	assert.Empty(t, res.Balances)
	assert.True(t, res.TotalExpenses.IsZero())
	assert.Nil(t, res.SuggestedPayer)
}

func TestConvert(t *testing.T) {
	rates := Rates{"USD": dec("0.9"), "GBP": dec("1.15")}

	got, err := Convert(dec("100"), "USD", "EUR", rates)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("90")))

	got, err = Convert(dec("42.42"), "EUR", "EUR", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("42.42")), "same-currency conversion is identity")

	_, err = Convert(dec("10"), "THB", "EUR", rates)
	require.ErrorIs(t, err, ErrMissingRate)
}
