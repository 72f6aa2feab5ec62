package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripledger/internal/models"
	"tripledger/internal/storage"
)

// CreateTrip persists a new trip and its exchange rates.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.TrackingMode == "" {
		trip.TrackingMode = models.TrackingIndividuals
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, name, tracking_mode, default_currency, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.Name, trip.TrackingMode, trip.DefaultCurrency, trip.CreatedBy, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for currency, rate := range trip.ExchangeRates {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO trip_rates (trip_id, currency, rate) VALUES (?, ?, ?)",
			trip.ID, currency, rate.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert exchange rate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, including its exchange rates.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, tracking_mode, default_currency, created_by, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.TrackingMode, &trip.DefaultCurrency, &trip.CreatedBy, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT currency, rate FROM trip_rates WHERE trip_id = ?",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	defer rows.Close()

	trip.ExchangeRates = make(map[string]decimal.Decimal)
	for rows.Next() {
		var currency, rateStr string
		if err := rows.Scan(&currency, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt exchange rate for %s: %w", currency, err)
		}
		trip.ExchangeRates[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}

	return trip, nil
}

// ListTripsByUser retrieves all trips created by a user, newest first.
func (s *SQLiteStore) ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tracking_mode, default_currency, created_by, created_at
		 FROM trips WHERE created_by = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.TrackingMode,
			&trip.DefaultCurrency, &trip.CreatedBy, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

// SetExchangeRates replaces a trip's exchange-rate table.
func (s *SQLiteStore) SetExchangeRates(ctx context.Context, tripID string, rates map[string]decimal.Decimal) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_rates WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear exchange rates: %w", err)
	}
	for currency, rate := range rates {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO trip_rates (trip_id, currency, rate) VALUES (?, ?, ?)",
			tripID, currency, rate.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert exchange rate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
