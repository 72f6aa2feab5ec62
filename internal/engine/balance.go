package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrMissingRate signals a currency conversion with no rate for the source
// currency. It is never silently treated as a 1:1 rate.
var ErrMissingRate = errors.New("no exchange rate for currency")

// Convert converts amount from one currency to another using rates
// expressed as units of the target (trip default) currency per unit of the
// source currency. A same-currency conversion is the identity and needs no
// rate entry.
func Convert(amount decimal.Decimal, from, to string, rates Rates) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok := rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingRate, from)
	}
	return amount.Mul(rate), nil
}

// AggregateInput is one consistent snapshot of a trip's data. The caller is
// responsible for snapshot consistency; the engine does not detect
// concurrent modification.
type AggregateInput struct {
	Expenses        []Expense
	Settlements     []Settlement
	Roster          Roster
	TrackingMode    TrackingMode
	DefaultCurrency string
	Rates           Rates
}

// SkippedItem records an expense or settlement left out of the aggregation
// because its currency could not be converted. Surfacing these instead of
// aborting keeps the balance sheet viewable when one rate is missing.
type SkippedItem struct {
	Kind     string // "expense" or "settlement"
	ID       string
	Currency string
}

// Result is the aggregated balance sheet, in the trip's default currency.
type Result struct {
	Balances      []EntityBalance
	TotalExpenses decimal.Decimal
	// SuggestedPayer is the entity currently owing the most, as the
	// candidate to pay the next shared expense. Nil when there are no
	// expenses or everyone is settled.
	SuggestedPayer *EntityBalance
	Skipped        []SkippedItem
}

type entityAcc struct {
	id       string
	name     string
	isFamily bool
	paid     decimal.Decimal
	share    decimal.Decimal
	// adj nets recorded settlements directly against the paid/share gap so
	// a fully repaid debt shows a balance of ~0.
	adj decimal.Decimal
	// hasExpense marks entities that appear in at least one expense, the
	// eligibility condition for the suggested-payer pick. Settlements alone
	// do not qualify.
	hasExpense bool
}

// Aggregate folds every expense and settlement in the snapshot into one net
// balance per entity. Each expense credits its full converted amount to the
// payer's entity and debits each included entity's individually converted
// share; shares are converted one by one, not derived from the converted
// total, so the share-sum property survives per-entity rounding.
//
// The sum of all balances is zero within Epsilon for any input whose
// currencies all convert.
func Aggregate(in AggregateInput) Result {
	accs := make(map[string]*entityAcc)
	res := Result{TotalExpenses: decimal.Zero}

	touch := func(id, name string, isFamily bool) *entityAcc {
		acc, ok := accs[id]
		if !ok {
			acc = &entityAcc{id: id, name: name, isFamily: isFamily,
				paid: decimal.Zero, share: decimal.Zero, adj: decimal.Zero}
			accs[id] = acc
		}
		return acc
	}

	for _, exp := range in.Expenses {
		paid, err := Convert(exp.Amount, exp.Currency, in.DefaultCurrency, in.Rates)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedItem{Kind: "expense", ID: exp.ID, Currency: exp.Currency})
			continue
		}
		res.TotalExpenses = res.TotalExpenses.Add(paid)

		if id, name, isFamily, ok := in.Roster.payerEntity(exp.PaidBy, in.TrackingMode); ok {
			acc := touch(id, name, isFamily)
			acc.paid = acc.paid.Add(paid)
			acc.hasExpense = true
		}

		// Shares are resolved on the original amount and currency, then
		// converted individually.
		for id, share := range ResolveShares(exp, &in.Roster, in.TrackingMode) {
			name, isFamily, ok := in.Roster.entityByID(id)
			if !ok {
				continue // unknown roster ID contributes nothing
			}
			converted, err := Convert(share, exp.Currency, in.DefaultCurrency, in.Rates)
			if err != nil {
				continue // already recorded via the expense conversion
			}
			acc := touch(id, name, isFamily)
			acc.share = acc.share.Add(converted)
			acc.hasExpense = true
		}
	}

	for _, s := range in.Settlements {
		amount, err := Convert(s.Amount, s.Currency, in.DefaultCurrency, in.Rates)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedItem{Kind: "settlement", ID: s.ID, Currency: s.Currency})
			continue
		}
		fromName, fromIsFamily, fromOK := in.Roster.entityByID(s.From)
		toName, toIsFamily, toOK := in.Roster.entityByID(s.To)
		if !fromOK || !toOK {
			continue
		}
		from := touch(s.From, fromName, fromIsFamily)
		to := touch(s.To, toName, toIsFamily)
		from.adj = from.adj.Add(amount)
		to.adj = to.adj.Sub(amount)
	}

	res.Balances = make([]EntityBalance, 0, len(accs))
	for _, acc := range accs {
		res.Balances = append(res.Balances, EntityBalance{
			ID:         acc.id,
			Name:       acc.name,
			IsFamily:   acc.isFamily,
			TotalPaid:  acc.paid,
			TotalShare: acc.share,
			Balance:    acc.paid.Sub(acc.share).Add(acc.adj),
		})
	}
	sort.Slice(res.Balances, func(i, j int) bool {
		if res.Balances[i].Name != res.Balances[j].Name {
			return res.Balances[i].Name < res.Balances[j].Name
		}
		return res.Balances[i].ID < res.Balances[j].ID
	})

	res.SuggestedPayer = suggestPayer(res.Balances, accs)
	return res
}

// suggestPayer picks the entity with the most negative balance among those
// with at least one recorded expense, ties broken by the name ordering of
// the balance slice. The largest current debtor paying next is the fastest
// path back to equilibrium.
func suggestPayer(balances []EntityBalance, accs map[string]*entityAcc) *EntityBalance {
	var pick *EntityBalance
	for i := range balances {
		b := &balances[i]
		if !accs[b.ID].hasExpense {
			continue
		}
		if b.Balance.GreaterThanOrEqual(Epsilon.Neg()) {
			continue // settled or in credit
		}
		if pick == nil || b.Balance.LessThan(pick.Balance) {
			pick = b
		}
	}
	if pick == nil {
		return nil
	}
	out := *pick
	return &out
}
