package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRoster() Roster {
	return Roster{
		Participants: []Participant{
			{ID: "p-alice", Name: "Alice"},
			{ID: "p-bob", Name: "Bob"},
			{ID: "p-carol", Name: "Carol", FamilyID: "f-miller"},
			{ID: "p-dave", Name: "Dave", FamilyID: "f-miller"},
		},
		Families: []Family{
			{ID: "f-miller", Name: "Millers", Adults: 2, Children: 1},
			{ID: "f-singh", Name: "Singhs", Adults: 1},
		},
	}
}

func TestResolveShares(t *testing.T) {
	roster := testRoster()

	tests := []struct {
		name    string
		expense Expense
		mode    TrackingMode
		want    map[string]string
	}{
		{
			name: "equal split between two individuals",
			expense: Expense{
				Amount:   dec("100"),
				Currency: "EUR",
				Distribution: Distribution{
					Kind:           DistIndividuals,
					SplitMode:      SplitEqual,
					ParticipantIDs: []string{"p-alice", "p-bob"},
				},
			},
			mode: TrackIndividuals,
			want: map[string]string{"p-alice": "50", "p-bob": "50"},
		},
		{
			name: "missing split mode defaults to equal",
			expense: Expense{
				Amount: dec("90"),
				Distribution: Distribution{
					Kind:           DistIndividuals,
					ParticipantIDs: []string{"p-alice", "p-bob", "p-carol"},
				},
			},
			mode: TrackIndividuals,
			want: map[string]string{"p-alice": "30", "p-bob": "30", "p-carol": "30"},
		},
		{
			name: "percentage split",
			expense: Expense{
				Amount: dec("200"),
				Distribution: Distribution{
					Kind:              DistIndividuals,
					SplitMode:         SplitPercentage,
					ParticipantIDs:    []string{"p-alice", "p-bob"},
					ParticipantValues: []decimal.Decimal{dec("70"), dec("30")},
				},
			},
			mode: TrackIndividuals,
			want: map[string]string{"p-alice": "140", "p-bob": "60"},
		},
		{
			name: "percentage split not summing to 100 is computed literally",
			expense: Expense{
				Amount: dec("100"),
				Distribution: Distribution{
					Kind:              DistIndividuals,
					SplitMode:         SplitPercentage,
					ParticipantIDs:    []string{"p-alice", "p-bob"},
					ParticipantValues: []decimal.Decimal{dec("60"), dec("60")},
				},
			},
			mode: TrackIndividuals,
			want: map[string]string{"p-alice": "60", "p-bob": "60"},
		},
		{
			name: "amount split uses declared literals",
			expense: Expense{
				Amount: dec("80"),
				Distribution: Distribution{
					Kind:              DistIndividuals,
					SplitMode:         SplitAmount,
					ParticipantIDs:    []string{"p-alice", "p-bob"},
					ParticipantValues: []decimal.Decimal{dec("55.50"), dec("24.50")},
				},
			},
			mode: TrackIndividuals,
			want: map[string]string{"p-alice": "55.50", "p-bob": "24.50"},
		},
		{
			name: "family equal split without size accounting",
			expense: Expense{
				Amount: dec("100"),
				Distribution: Distribution{
					Kind:      DistFamilies,
					SplitMode: SplitEqual,
					FamilyIDs: []string{"f-miller", "f-singh"},
				},
			},
			mode: TrackFamilies,
			want: map[string]string{"f-miller": "50", "f-singh": "50"},
		},
		{
			name: "family equal split weighted by member count",
			expense: Expense{
				Amount: dec("200"),
				Distribution: Distribution{
					Kind:                 DistFamilies,
					SplitMode:            SplitEqual,
					FamilyIDs:            []string{"f-miller", "f-singh"},
					AccountForFamilySize: true,
				},
			},
			mode: TrackFamilies,
			// Millers have 3 members, Singhs 1: 150 vs 50.
			want: map[string]string{"f-miller": "150", "f-singh": "50"},
		},
		{
			name: "mixed split counts a standalone participant as one member",
			expense: Expense{
				Amount: dec("200"),
				Distribution: Distribution{
					Kind:                 DistMixed,
					SplitMode:            SplitEqual,
					FamilyIDs:            []string{"f-miller"},
					ParticipantIDs:       []string{"p-alice"},
					AccountForFamilySize: true,
				},
			},
			mode: TrackFamilies,
			// 3 family members + 1 standalone = 4 units.
			want: map[string]string{"f-miller": "150", "p-alice": "50"},
		},
		{
			name: "mixed percentage split over families and individuals",
			expense: Expense{
				Amount: dec("100"),
				Distribution: Distribution{
					Kind:              DistMixed,
					SplitMode:         SplitPercentage,
					FamilyIDs:         []string{"f-miller"},
					FamilyValues:      []decimal.Decimal{dec("75")},
					ParticipantIDs:    []string{"p-bob"},
					ParticipantValues: []decimal.Decimal{dec("25")},
				},
			},
			mode: TrackFamilies,
			want: map[string]string{"f-miller": "75", "p-bob": "25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := ResolveShares(tt.expense, &roster, tt.mode)

			require.Len(t, shares, len(tt.want))
			for id, want := range tt.want {
				got, ok := shares[id]
				require.True(t, ok, "expected a share for %s", id)
				assert.True(t, got.Sub(dec(want)).Abs().LessThan(Epsilon),
					"%s share = %s, want %s", id, got, want)
			}
		})
	}
}

func TestResolveSharesOmitsUnreferencedEntities(t *testing.T) {
	roster := testRoster()
	exp := Expense{
		Amount: dec("100"),
		Distribution: Distribution{
			Kind:           DistIndividuals,
			ParticipantIDs: []string{"p-alice"},
		},
	}

	shares := ResolveShares(exp, &roster, TrackIndividuals)

	_, present := shares["p-bob"]
	assert.False(t, present, "uninvolved participant must be absent, not zero")
	assert.Len(t, shares, 1)
}

func TestResolveSharesEmptyDistribution(t *testing.T) {
	roster := testRoster()
	shares := ResolveShares(Expense{Amount: dec("100")}, &roster, TrackIndividuals)
	assert.Empty(t, shares)
}

// Share-sum property: equal splits always reassemble the expense amount.
func TestResolveSharesSumsToAmount(t *testing.T) {
	roster := testRoster()
	amounts := []string{"100", "99.99", "0.01", "33.34", "7"}

	for _, a := range amounts {
		exp := Expense{
			Amount: dec(a),
			Distribution: Distribution{
				Kind:           DistIndividuals,
				SplitMode:      SplitEqual,
				ParticipantIDs: []string{"p-alice", "p-bob", "p-carol"},
			},
		}
		sum := decimal.Zero
		for _, s := range ResolveShares(exp, &roster, TrackIndividuals) {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Sub(dec(a)).Abs().LessThan(Epsilon),
			"shares of %s sum to %s", a, sum)
	}
}
