package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tripledger/internal/models"
	"tripledger/internal/storage"
)

var oneHundred = decimal.NewFromInt(100)

// declaredSumTolerance is how far a percentage or amount split's declared
// values may drift from their expected sum before a warning is logged.
// Mismatches are accepted and computed literally; only clearly invalid
// records (non-positive amounts, empty distributions) are rejected.
var declaredSumTolerance = decimal.RequireFromString("0.05")

// ExpenseService records expenses and settlements.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// AddExpense validates and persists a new expense.
func (s *ExpenseService) AddExpense(ctx context.Context, e *models.Expense) error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: expense amount must be positive", ErrInvalidInput)
	}
	if e.Currency == "" {
		return fmt.Errorf("%w: expense currency is required", ErrInvalidInput)
	}

	trip, err := s.store.GetTrip(ctx, e.TripID)
	if err != nil {
		return err
	}

	participants, err := s.store.ListParticipants(ctx, e.TripID)
	if err != nil {
		return err
	}
	payerOK := false
	for _, p := range participants {
		if p.ID == e.PaidBy {
			payerOK = true
			break
		}
	}
	if !payerOK {
		return fmt.Errorf("%w: payer %s is not on the trip roster", ErrInvalidInput, e.PaidBy)
	}

	if err := validateDistribution(e.Distribution, trip.TrackingMode); err != nil {
		return err
	}
	warnOnDeclaredSumMismatch(e)

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return err
	}

	slog.Info("Expense recorded",
		"trip_id", e.TripID,
		"expense_id", e.ID,
		"amount", e.Amount,
		"currency", e.Currency,
		"split_mode", e.Distribution.SplitMode,
	)
	return nil
}

// ListExpenses retrieves a trip's expenses.
func (s *ExpenseService) ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByTrip(ctx, tripID)
}

// RemoveExpense deletes an expense. Expenses are immutable; corrections are
// a delete plus a new expense.
func (s *ExpenseService) RemoveExpense(ctx context.Context, expenseID string) error {
	return s.store.DeleteExpense(ctx, expenseID)
}

// AddSettlement validates and persists a recorded payment.
func (s *ExpenseService) AddSettlement(ctx context.Context, settlement *models.Settlement, userID string) error {
	if settlement.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: settlement amount must be positive", ErrInvalidInput)
	}
	if settlement.Currency == "" {
		return fmt.Errorf("%w: settlement currency is required", ErrInvalidInput)
	}
	if settlement.FromEntityID == "" || settlement.ToEntityID == "" {
		return fmt.Errorf("%w: settlement needs both entities", ErrInvalidInput)
	}
	if settlement.FromEntityID == settlement.ToEntityID {
		return fmt.Errorf("%w: an entity cannot settle with itself", ErrInvalidInput)
	}
	if _, err := s.store.GetTrip(ctx, settlement.TripID); err != nil {
		return err
	}

	settlement.CreatedBy = userID
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return err
	}

	slog.Info("Settlement recorded",
		"trip_id", settlement.TripID,
		"settlement_id", settlement.ID,
		"from", settlement.FromEntityID,
		"to", settlement.ToEntityID,
		"amount", settlement.Amount,
	)
	return nil
}

// ListSettlements retrieves a trip's settlements.
func (s *ExpenseService) ListSettlements(ctx context.Context, tripID string) ([]*models.Settlement, error) {
	return s.store.ListSettlementsByTrip(ctx, tripID)
}

// RemoveSettlement deletes a settlement.
func (s *ExpenseService) RemoveSettlement(ctx context.Context, settlementID string) error {
	return s.store.DeleteSettlement(ctx, settlementID)
}

func validateDistribution(d models.Distribution, trackingMode string) error {
	switch d.Kind {
	case models.DistributionIndividuals:
		if len(d.Participants) == 0 {
			return fmt.Errorf("%w: distribution includes no participants", ErrInvalidInput)
		}
	case models.DistributionFamilies:
		if len(d.Families) == 0 {
			return fmt.Errorf("%w: distribution includes no families", ErrInvalidInput)
		}
	case models.DistributionMixed:
		if len(d.Families)+len(d.Participants) == 0 {
			return fmt.Errorf("%w: distribution includes no entities", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown distribution kind %q", ErrInvalidInput, d.Kind)
	}

	switch d.SplitMode {
	case "", models.SplitEqual, models.SplitPercentage, models.SplitAmount:
	default:
		return fmt.Errorf("%w: unknown split mode %q", ErrInvalidInput, d.SplitMode)
	}

	if trackingMode == models.TrackingIndividuals && d.Kind != models.DistributionIndividuals {
		return fmt.Errorf("%w: %s distribution on an individuals-mode trip", ErrInvalidInput, d.Kind)
	}

	return nil
}

// warnOnDeclaredSumMismatch flags percentage splits not summing to 100 and
// amount splits not summing to the expense amount. The engine computes
// literally from what is given, so these stay warnings.
func warnOnDeclaredSumMismatch(e *models.Expense) {
	var expected decimal.Decimal
	switch e.Distribution.SplitMode {
	case models.SplitPercentage:
		expected = oneHundred
	case models.SplitAmount:
		expected = e.Amount
	default:
		return
	}

	sum := decimal.Zero
	for _, m := range e.Distribution.Families {
		sum = sum.Add(m.Value)
	}
	for _, m := range e.Distribution.Participants {
		sum = sum.Add(m.Value)
	}

	if sum.Sub(expected).Abs().GreaterThan(declaredSumTolerance) {
		slog.Warn("Declared split values do not add up",
			"trip_id", e.TripID,
			"split_mode", e.Distribution.SplitMode,
			"declared_sum", sum,
			"expected", expected,
		)
	}
}
