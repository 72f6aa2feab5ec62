package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripledger/internal/models"
	"tripledger/internal/storage"
)

// CreateParticipant adds a participant to a trip's roster.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	var familyID interface{} = nil
	if p.FamilyID != "" {
		familyID = p.FamilyID
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, trip_id, name, family_id, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.TripID, p.Name, familyID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return nil
}

// ListParticipants retrieves a trip's participants ordered by name.
func (s *SQLiteStore) ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name, family_id, created_at FROM participants WHERE trip_id = ? ORDER BY name",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		var familyID sql.NullString
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &familyID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if familyID.Valid {
			p.FamilyID = familyID.String
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// DeleteParticipant removes a participant from the roster.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, participantID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	return nil
}

// CreateFamily adds a family to a trip's roster.
func (s *SQLiteStore) CreateFamily(ctx context.Context, f *models.Family) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO families (id, trip_id, name, adults, children, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		f.ID, f.TripID, f.Name, f.Adults, f.Children, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert family: %w", err)
	}

	return nil
}

// ListFamilies retrieves a trip's families ordered by name.
func (s *SQLiteStore) ListFamilies(ctx context.Context, tripID string) ([]*models.Family, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name, adults, children, created_at FROM families WHERE trip_id = ? ORDER BY name",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var families []*models.Family
	for rows.Next() {
		f := &models.Family{}
		if err := rows.Scan(&f.ID, &f.TripID, &f.Name, &f.Adults, &f.Children, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate families: %w", err)
	}

	return families, nil
}

// DeleteFamily removes a family; its members' family_id is cleared by the
// foreign key's ON DELETE SET NULL.
func (s *SQLiteStore) DeleteFamily(ctx context.Context, familyID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM families WHERE id = ?", familyID)
	if err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("family %s: %w", familyID, storage.ErrNotFound)
	}
	return nil
}
