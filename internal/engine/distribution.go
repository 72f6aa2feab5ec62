package engine

import "github.com/shopspring/decimal"

var (
	oneHundred = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// ResolveShares computes each entity's share of a single expense under the
// expense's distribution, in the expense's own currency.
//
// The computation is literal: percentage and amount values are applied as
// declared, with no renormalization when they do not sum to 100 or to the
// expense amount. Input validation belongs to the caller; a malformed
// distribution yields a literal (possibly unbalanced) result, never an
// error, so one bad expense cannot block a whole balance sheet.
//
// Entities not referenced by the distribution are absent from the returned
// map, letting callers distinguish "no share" from "zero share".
func ResolveShares(exp Expense, roster *Roster, mode TrackingMode) map[string]decimal.Decimal {
	entries := includedEntities(exp.Distribution)
	if len(entries) == 0 {
		return map[string]decimal.Decimal{}
	}

	shares := make(map[string]decimal.Decimal, len(entries))

	switch effectiveSplitMode(exp.Distribution) {
	case SplitPercentage:
		for _, e := range entries {
			shares[e.id] = exp.Amount.Mul(e.value).Div(oneHundred)
		}

	case SplitAmount:
		for _, e := range entries {
			shares[e.id] = e.value
		}

	default: // equal
		if exp.Distribution.AccountForFamilySize {
			total := decimal.Zero
			weights := make([]decimal.Decimal, len(entries))
			for i, e := range entries {
				weights[i] = entityWeight(e, roster)
				total = total.Add(weights[i])
			}
			for i, e := range entries {
				shares[e.id] = exp.Amount.Mul(weights[i]).Div(total)
			}
		} else {
			n := decimal.NewFromInt(int64(len(entries)))
			per := exp.Amount.Div(n)
			for _, e := range entries {
				shares[e.id] = per
			}
		}
	}

	return shares
}

type distEntry struct {
	id       string
	isFamily bool
	value    decimal.Decimal
}

// includedEntities flattens a distribution into one entity list. For the
// mixed kind, families come first, matching the denominator/weighting rule
// that treats both classes uniformly.
func includedEntities(d Distribution) []distEntry {
	var entries []distEntry
	if d.Kind == DistFamilies || d.Kind == DistMixed {
		for i, id := range d.FamilyIDs {
			entries = append(entries, distEntry{id: id, isFamily: true, value: valueAt(d.FamilyValues, i)})
		}
	}
	if d.Kind == DistIndividuals || d.Kind == DistMixed {
		for i, id := range d.ParticipantIDs {
			entries = append(entries, distEntry{id: id, value: valueAt(d.ParticipantValues, i)})
		}
	}
	return entries
}

// valueAt reads a per-entity value from a parallel slice, tolerating short
// or missing slices (a missing value computes as zero).
func valueAt(values []decimal.Decimal, i int) decimal.Decimal {
	if i < len(values) {
		return values[i]
	}
	return decimal.Zero
}

func effectiveSplitMode(d Distribution) SplitMode {
	if d.SplitMode == "" {
		return SplitEqual
	}
	return d.SplitMode
}

// entityWeight returns an entity's unit count for size-weighted equal
// splits: a family's member count, or 1 for a standalone participant. A
// family missing from the roster (or recorded with no members) counts as a
// single unit rather than vanishing from the denominator.
func entityWeight(e distEntry, roster *Roster) decimal.Decimal {
	if !e.isFamily {
		return one
	}
	f, ok := roster.familyByID(e.id)
	if !ok {
		return one
	}
	members := f.Adults + f.Children
	if members < 1 {
		return one
	}
	return decimal.NewFromInt(int64(members))
}
