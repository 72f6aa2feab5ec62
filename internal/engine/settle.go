package engine

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// Optimize collapses a zero-sum balance sheet into the minimum set of
// point-to-point payments.
//
// Balances within Epsilon of zero are treated as already settled and
// produce no transactions. The remaining entities are split into debtors
// and creditors, and the largest outstanding debtor is repeatedly matched
// against the largest outstanding creditor for the smaller of the two
// magnitudes. Every transaction fully retires at least one side, so the
// plan never exceeds (non-zero entities − 1) payments, the theoretical
// minimum for this construction. Ties in magnitude break by entity name so
// identical inputs always yield the identical plan.
//
// Amounts are rounded to the currency minor unit only when the transaction
// is emitted; the matching loop itself runs on unrounded values to avoid
// compounding rounding error.
func Optimize(balances []EntityBalance, currency string) Plan {
	debtors := &partyHeap{}
	creditors := &partyHeap{}
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Epsilon):
			heap.Push(creditors, party{id: b.ID, name: b.Name, isFamily: b.IsFamily, amount: b.Balance})
		case b.Balance.LessThan(Epsilon.Neg()):
			heap.Push(debtors, party{id: b.ID, name: b.Name, isFamily: b.IsFamily, amount: b.Balance.Neg()})
		}
	}

	plan := Plan{Currency: currency}
	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := heap.Pop(debtors).(party)
		creditor := heap.Pop(creditors).(party)

		amount := decimal.Min(debtor.amount, creditor.amount)
		plan.Transactions = append(plan.Transactions, Transaction{
			FromID:       debtor.id,
			ToID:         creditor.id,
			FromName:     debtor.name,
			ToName:       creditor.name,
			Amount:       amount.Round(2),
			FromIsFamily: debtor.isFamily,
			ToIsFamily:   creditor.isFamily,
		})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)
		if debtor.amount.GreaterThan(Epsilon) {
			heap.Push(debtors, debtor)
		}
		if creditor.amount.GreaterThan(Epsilon) {
			heap.Push(creditors, creditor)
		}
	}

	plan.TotalTransactions = len(plan.Transactions)
	return plan
}

type party struct {
	id       string
	name     string
	isFamily bool
	amount   decimal.Decimal // always positive
}

// partyHeap is a max-heap on amount with name as the deterministic
// tie-break.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if !h[i].amount.Equal(h[j].amount) {
		return h[i].amount.GreaterThan(h[j].amount)
	}
	return h[i].name < h[j].name
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
