package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"tripledger/internal/engine"
	"tripledger/internal/models"
	"tripledger/internal/storage"
)

// BalanceService computes balance sheets and settlement plans. It loads one
// consistent snapshot per call and hands it to the pure engine; nothing is
// cached between calls, so new data is reflected by simply recomputing.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage
// backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// BalanceEntry is one entity's position, enriched with the classification
// and display string the UI renders.
type BalanceEntry struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	IsFamily   bool                 `json:"is_family"`
	TotalPaid  decimal.Decimal      `json:"total_paid"`
	TotalShare decimal.Decimal      `json:"total_share"`
	Balance    decimal.Decimal      `json:"balance"`
	Status     engine.BalanceStatus `json:"status"`
	Display    string               `json:"display"`
}

// BalanceSheet is the aggregated view of a trip.
type BalanceSheet struct {
	TripID         string               `json:"trip_id"`
	Currency       string               `json:"currency"`
	TotalExpenses  decimal.Decimal      `json:"total_expenses"`
	Balances       []BalanceEntry       `json:"balances"`
	SuggestedPayer *BalanceEntry        `json:"suggested_payer,omitempty"`
	Skipped        []engine.SkippedItem `json:"skipped,omitempty"`
}

// PlanTransaction is one payment of a settlement plan.
type PlanTransaction struct {
	FromID       string          `json:"from_id"`
	ToID         string          `json:"to_id"`
	FromName     string          `json:"from_name"`
	ToName       string          `json:"to_name"`
	Amount       decimal.Decimal `json:"amount"`
	FromIsFamily bool            `json:"from_is_family"`
	ToIsFamily   bool            `json:"to_is_family"`
}

// SettlementPlan is the minimal payment set for a trip's current balances.
type SettlementPlan struct {
	TripID            string            `json:"trip_id"`
	Currency          string            `json:"currency"`
	Transactions      []PlanTransaction `json:"transactions"`
	TotalTransactions int               `json:"total_transactions"`
}

// GetBalanceSheet aggregates a trip's expenses and settlements into per-
// entity balances in the trip's default currency.
func (s *BalanceService) GetBalanceSheet(ctx context.Context, tripID string) (*BalanceSheet, error) {
	in, trip, err := s.loadSnapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}

	res := engine.Aggregate(*in)
	if len(res.Skipped) > 0 {
		slog.Warn("Balance sheet computed with missing exchange rates",
			"trip_id", tripID, "skipped", len(res.Skipped))
	}

	sheet := &BalanceSheet{
		TripID:        tripID,
		Currency:      trip.DefaultCurrency,
		TotalExpenses: res.TotalExpenses,
		Balances:      make([]BalanceEntry, len(res.Balances)),
		Skipped:       res.Skipped,
	}
	for i, b := range res.Balances {
		sheet.Balances[i] = toBalanceEntry(b, trip.DefaultCurrency)
	}
	if res.SuggestedPayer != nil {
		entry := toBalanceEntry(*res.SuggestedPayer, trip.DefaultCurrency)
		sheet.SuggestedPayer = &entry
	}

	return sheet, nil
}

// GetSettlementPlan computes the minimal payment plan for a trip. When
// entityID is non-empty the plan is filtered to the transactions involving
// that entity (the "settle up" view for one person or family).
func (s *BalanceService) GetSettlementPlan(ctx context.Context, tripID, entityID string) (*SettlementPlan, error) {
	in, trip, err := s.loadSnapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}

	res := engine.Aggregate(*in)
	plan := engine.Optimize(res.Balances, trip.DefaultCurrency)

	out := &SettlementPlan{TripID: tripID, Currency: plan.Currency}
	for _, tx := range plan.Transactions {
		if entityID != "" && tx.FromID != entityID && tx.ToID != entityID {
			continue
		}
		out.Transactions = append(out.Transactions, PlanTransaction{
			FromID:       tx.FromID,
			ToID:         tx.ToID,
			FromName:     tx.FromName,
			ToName:       tx.ToName,
			Amount:       tx.Amount,
			FromIsFamily: tx.FromIsFamily,
			ToIsFamily:   tx.ToIsFamily,
		})
	}
	out.TotalTransactions = len(out.Transactions)

	return out, nil
}

// loadSnapshot reads everything one aggregation needs in a single pass and
// converts the stored models into engine inputs.
func (s *BalanceService) loadSnapshot(ctx context.Context, tripID string) (*engine.AggregateInput, *models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.store.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	families, err := s.store.ListFamilies(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.store.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlementsByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	in := &engine.AggregateInput{
		TrackingMode:    engine.TrackingMode(trip.TrackingMode),
		DefaultCurrency: trip.DefaultCurrency,
		Rates:           engine.Rates(trip.ExchangeRates),
	}
	for _, p := range participants {
		in.Roster.Participants = append(in.Roster.Participants, engine.Participant{
			ID: p.ID, Name: p.Name, FamilyID: p.FamilyID,
		})
	}
	for _, f := range families {
		in.Roster.Families = append(in.Roster.Families, engine.Family{
			ID: f.ID, Name: f.Name, Adults: f.Adults, Children: f.Children,
		})
	}
	for _, e := range expenses {
		in.Expenses = append(in.Expenses, toEngineExpense(e))
	}
	for _, st := range settlements {
		in.Settlements = append(in.Settlements, engine.Settlement{
			ID:       st.ID,
			From:     st.FromEntityID,
			To:       st.ToEntityID,
			Amount:   st.Amount,
			Currency: st.Currency,
		})
	}

	return in, trip, nil
}

func toEngineExpense(e *models.Expense) engine.Expense {
	dist := engine.Distribution{
		Kind:                 engine.DistributionKind(e.Distribution.Kind),
		SplitMode:            engine.SplitMode(e.Distribution.SplitMode),
		AccountForFamilySize: e.Distribution.AccountForFamilySize,
	}
	for _, m := range e.Distribution.Participants {
		dist.ParticipantIDs = append(dist.ParticipantIDs, m.EntityID)
		dist.ParticipantValues = append(dist.ParticipantValues, m.Value)
	}
	for _, m := range e.Distribution.Families {
		dist.FamilyIDs = append(dist.FamilyIDs, m.EntityID)
		dist.FamilyValues = append(dist.FamilyValues, m.Value)
	}

	return engine.Expense{
		ID:           e.ID,
		Amount:       e.Amount,
		Currency:     e.Currency,
		PaidBy:       e.PaidBy,
		Distribution: dist,
	}
}

func toBalanceEntry(b engine.EntityBalance, currency string) BalanceEntry {
	return BalanceEntry{
		ID:         b.ID,
		Name:       b.Name,
		IsFamily:   b.IsFamily,
		TotalPaid:  b.TotalPaid,
		TotalShare: b.TotalShare,
		Balance:    b.Balance,
		Status:     engine.Classify(b.Balance),
		Display:    engine.FormatSigned(b.Balance, currency),
	}
}
