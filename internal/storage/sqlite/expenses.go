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

// CreateExpense persists an expense and its distribution members.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if e.Date == 0 {
		e.Date = e.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	accountForSize := 0
	if e.Distribution.AccountForFamilySize {
		accountForSize = 1
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, description, amount, currency, paid_by,
		                       dist_kind, split_mode, account_for_family_size, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TripID, e.Description, e.Amount.String(), e.Currency, e.PaidBy,
		e.Distribution.Kind, e.Distribution.SplitMode, accountForSize, e.Date, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	insertMember := func(m models.DistributionMember, isFamily int) error {
		var value interface{} = nil
		if !m.Value.IsZero() {
			value = m.Value.String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_members (expense_id, entity_id, is_family, value) VALUES (?, ?, ?, ?)",
			e.ID, m.EntityID, isFamily, value,
		)
		return err
	}
	for _, m := range e.Distribution.Families {
		if err := insertMember(m, 1); err != nil {
			return fmt.Errorf("failed to insert family member: %w", err)
		}
	}
	for _, m := range e.Distribution.Participants {
		if err := insertMember(m, 0); err != nil {
			return fmt.Errorf("failed to insert participant member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its distribution.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := s.scanExpenseRow(s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, description, amount, currency, paid_by,
		        dist_kind, split_mode, account_for_family_size, date, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadMembers(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpensesByTrip retrieves a trip's expenses, newest first.
func (s *SQLiteStore) ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, description, amount, currency, paid_by,
		        dist_kind, split_mode, account_for_family_size, date, created_at
		 FROM expenses WHERE trip_id = ? ORDER BY date DESC, created_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := s.scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := s.loadMembers(ctx, e); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// DeleteExpense removes an expense; its members cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanExpenseRow(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var amountStr string
	var accountForSize int
	err := row.Scan(&e.ID, &e.TripID, &e.Description, &amountStr, &e.Currency, &e.PaidBy,
		&e.Distribution.Kind, &e.Distribution.SplitMode, &accountForSize, &e.Date, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount for expense %s: %w", e.ID, err)
	}
	e.Distribution.AccountForFamilySize = accountForSize != 0
	return e, nil
}

// loadMembers populates an expense's distribution member lists.
func (s *SQLiteStore) loadMembers(ctx context.Context, e *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT entity_id, is_family, value FROM expense_members WHERE expense_id = ? ORDER BY entity_id",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.DistributionMember
		var isFamily int
		var value sql.NullString
		if err := rows.Scan(&m.EntityID, &isFamily, &value); err != nil {
			return fmt.Errorf("failed to scan expense member: %w", err)
		}
		if value.Valid {
			m.Value, err = decimal.NewFromString(value.String)
			if err != nil {
				return fmt.Errorf("corrupt value for member %s: %w", m.EntityID, err)
			}
		}
		if isFamily != 0 {
			e.Distribution.Families = append(e.Distribution.Families, m)
		} else {
			e.Distribution.Participants = append(e.Distribution.Participants, m)
		}
	}
	return rows.Err()
}
