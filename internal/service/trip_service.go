package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"tripledger/internal/models"
	"tripledger/internal/storage"
)

// TripService manages trips and their rosters.
type TripService struct {
	store storage.Store
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTrip validates and persists a new trip for the given user.
func (s *TripService) CreateTrip(ctx context.Context, trip *models.Trip, userID string) error {
	if trip.Name == "" {
		return fmt.Errorf("%w: trip name is required", ErrInvalidInput)
	}
	if trip.DefaultCurrency == "" {
		return fmt.Errorf("%w: default currency is required", ErrInvalidInput)
	}
	switch trip.TrackingMode {
	case "", models.TrackingIndividuals, models.TrackingFamilies:
	default:
		return fmt.Errorf("%w: unknown tracking mode %q", ErrInvalidInput, trip.TrackingMode)
	}
	for currency, rate := range trip.ExchangeRates {
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: exchange rate for %s must be positive", ErrInvalidInput, currency)
		}
	}

	trip.CreatedBy = userID
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return err
	}

	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name, "mode", trip.TrackingMode)
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.store.GetTrip(ctx, tripID)
}

// ListTrips retrieves the trips created by a user.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	return s.store.ListTripsByUser(ctx, userID)
}

// SetExchangeRates replaces a trip's exchange-rate table.
func (s *TripService) SetExchangeRates(ctx context.Context, tripID string, rates map[string]decimal.Decimal) error {
	for currency, rate := range rates {
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: exchange rate for %s must be positive", ErrInvalidInput, currency)
		}
	}
	return s.store.SetExchangeRates(ctx, tripID, rates)
}

// AddParticipant adds a participant to a trip's roster. When a family ID is
// given it must exist on the same trip.
func (s *TripService) AddParticipant(ctx context.Context, p *models.Participant) error {
	if p.Name == "" {
		return fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}
	if _, err := s.store.GetTrip(ctx, p.TripID); err != nil {
		return err
	}
	if p.FamilyID != "" {
		families, err := s.store.ListFamilies(ctx, p.TripID)
		if err != nil {
			return err
		}
		found := false
		for _, f := range families {
			if f.ID == p.FamilyID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: family %s not on trip %s", ErrInvalidInput, p.FamilyID, p.TripID)
		}
	}

	return s.store.CreateParticipant(ctx, p)
}

// ListParticipants retrieves a trip's roster of participants.
func (s *TripService) ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error) {
	return s.store.ListParticipants(ctx, tripID)
}

// RemoveParticipant removes a participant from the roster. Past expenses
// referencing the participant keep their rows; the engine treats the
// missing ID as contributing nothing.
func (s *TripService) RemoveParticipant(ctx context.Context, participantID string) error {
	return s.store.DeleteParticipant(ctx, participantID)
}

// AddFamily adds a family to a trip's roster.
func (s *TripService) AddFamily(ctx context.Context, f *models.Family) error {
	if f.Name == "" {
		return fmt.Errorf("%w: family name is required", ErrInvalidInput)
	}
	if f.Adults < 0 || f.Children < 0 {
		return fmt.Errorf("%w: family member counts cannot be negative", ErrInvalidInput)
	}
	if _, err := s.store.GetTrip(ctx, f.TripID); err != nil {
		return err
	}

	return s.store.CreateFamily(ctx, f)
}

// ListFamilies retrieves a trip's families.
func (s *TripService) ListFamilies(ctx context.Context, tripID string) ([]*models.Family, error) {
	return s.store.ListFamilies(ctx, tripID)
}

// RemoveFamily removes a family; its members become unattached individuals.
func (s *TripService) RemoveFamily(ctx context.Context, familyID string) error {
	return s.store.DeleteFamily(ctx, familyID)
}
