package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bal(id, name, amount string) EntityBalance {
	return EntityBalance{ID: id, Name: name, Balance: dec(amount)}
}

func TestOptimizeTwoParties(t *testing.T) {
	plan := Optimize([]EntityBalance{
		bal("p-alice", "Alice", "50"),
		bal("p-bob", "Bob", "-50"),
	}, "EUR")

	require.Equal(t, 1, plan.TotalTransactions)
	tx := plan.Transactions[0]
	assert.Equal(t, "p-bob", tx.FromID)
	assert.Equal(t, "p-alice", tx.ToID)
	assert.Equal(t, "Bob", tx.FromName)
	assert.True(t, tx.Amount.Equal(dec("50")))
	assert.Equal(t, "EUR", plan.Currency)
}

func TestOptimizeThreeParties(t *testing.T) {
	plan := Optimize([]EntityBalance{
		bal("p-alice", "Alice", "50"),
		bal("p-bob", "Bob", "-10"),
		bal("p-carol", "Carol", "-40"),
	}, "EUR")

	// Largest debtor first: Carol pays 40, then Bob pays 10.
	require.Equal(t, 2, plan.TotalTransactions)
	assert.Equal(t, "p-carol", plan.Transactions[0].FromID)
	assert.True(t, plan.Transactions[0].Amount.Equal(dec("40")))
	assert.Equal(t, "p-bob", plan.Transactions[1].FromID)
	assert.True(t, plan.Transactions[1].Amount.Equal(dec("10")))
}

func TestOptimizeSettledIsEmpty(t *testing.T) {
	plan := Optimize([]EntityBalance{
		bal("p-alice", "Alice", "0.004"),
		bal("p-bob", "Bob", "-0.004"),
		bal("p-carol", "Carol", "0"),
	}, "EUR")

	assert.Empty(t, plan.Transactions)
	assert.Equal(t, 0, plan.TotalTransactions)
}

func TestOptimizeEmptyInput(t *testing.T) {
	plan := Optimize(nil, "EUR")
	assert.Equal(t, 0, plan.TotalTransactions)
}

func TestOptimizeTransactionBound(t *testing.T) {
	balances := []EntityBalance{
		bal("a", "Ada", "120.55"),
		bal("b", "Ben", "-30.05"),
		bal("c", "Cleo", "-45.50"),
		bal("d", "Dov", "-45"),
		bal("e", "Eli", "37.30"),
		bal("f", "Fay", "-37.30"),
	}

	plan := Optimize(balances, "EUR")

	assert.LessOrEqual(t, plan.TotalTransactions, len(balances)-1,
		"plan must not exceed the N-1 bound")
	assertPlanSettles(t, balances, plan)
}

func TestOptimizeZeroesEveryBalance(t *testing.T) {
	balances := []EntityBalance{
		bal("a", "Ada", "10"),
		bal("b", "Ben", "20"),
		bal("c", "Cleo", "-5"),
		bal("d", "Dov", "-25"),
	}
	assertPlanSettles(t, balances, Optimize(balances, "EUR"))
}

func TestOptimizeDeterministicTieBreak(t *testing.T) {
	balances := []EntityBalance{
		bal("z", "Zoe", "-25"),
		bal("a", "Ada", "-25"),
		bal("m", "Mia", "50"),
	}

	first := Optimize(balances, "EUR")
	second := Optimize(balances, "EUR")

	require.Equal(t, 2, first.TotalTransactions)
	assert.Equal(t, "Ada", first.Transactions[0].FromName, "equal debts resolve by name")
	require.Equal(t, first.TotalTransactions, second.TotalTransactions)
	for i := range first.Transactions {
		assert.Equal(t, first.Transactions[i], second.Transactions[i])
	}
}

func TestOptimizeRoundsAtTransactionCreation(t *testing.T) {
	plan := Optimize([]EntityBalance{
		bal("a", "Ada", "33.333333"),
		bal("b", "Ben", "-33.333333"),
	}, "EUR")

	require.Equal(t, 1, plan.TotalTransactions)
	assert.True(t, plan.Transactions[0].Amount.Equal(dec("33.33")),
		"amount rounded to the minor unit, got %s", plan.Transactions[0].Amount)
}

// assertPlanSettles applies the plan's transactions to the input balances
// and checks that every entity ends within Epsilon of zero.
func assertPlanSettles(t *testing.T, balances []EntityBalance, plan Plan) {
	t.Helper()

	remaining := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		remaining[b.ID] = b.Balance
	}
	for _, tx := range plan.Transactions {
		remaining[tx.FromID] = remaining[tx.FromID].Add(tx.Amount)
		remaining[tx.ToID] = remaining[tx.ToID].Sub(tx.Amount)
	}
	for id, left := range remaining {
		assert.True(t, left.Abs().LessThanOrEqual(Epsilon.Mul(decimal.NewFromInt(2))),
			"entity %s left with %s after applying the plan", id, left)
	}
}
