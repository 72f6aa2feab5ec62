// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tripledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
type Store interface {
	// CreateTrip persists a new trip, populating ID and CreatedAt when
	// unset.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip by ID, including its exchange rates.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsByUser retrieves all trips created by a user, newest first.
	ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error)

	// SetExchangeRates replaces a trip's exchange-rate table.
	SetExchangeRates(ctx context.Context, tripID string, rates map[string]decimal.Decimal) error

	// CreateParticipant adds a participant to a trip's roster.
	CreateParticipant(ctx context.Context, p *models.Participant) error

	// ListParticipants retrieves a trip's participants ordered by name.
	ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error)

	// DeleteParticipant removes a participant from the roster.
	DeleteParticipant(ctx context.Context, participantID string) error

	// CreateFamily adds a family to a trip's roster.
	CreateFamily(ctx context.Context, f *models.Family) error

	// ListFamilies retrieves a trip's families ordered by name.
	ListFamilies(ctx context.Context, tripID string) ([]*models.Family, error)

	// DeleteFamily removes a family; its members become unattached.
	DeleteFamily(ctx context.Context, familyID string) error

	// CreateExpense persists an expense and its distribution members.
	CreateExpense(ctx context.Context, e *models.Expense) error

	// GetExpense retrieves an expense by ID, including its distribution.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByTrip retrieves a trip's expenses, newest first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its distribution members.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a recorded payment.
	CreateSettlement(ctx context.Context, s *models.Settlement) error

	// ListSettlementsByTrip retrieves a trip's settlements, newest first.
	ListSettlementsByTrip(ctx context.Context, tripID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
