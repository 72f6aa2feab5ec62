package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"tripledger/internal/middleware"
	"tripledger/internal/models"
)

type createTripRequest struct {
	Name            string                     `json:"name"`
	TrackingMode    string                     `json:"tracking_mode"`
	DefaultCurrency string                     `json:"default_currency"`
	ExchangeRates   map[string]decimal.Decimal `json:"exchange_rates"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	trip := &models.Trip{
		Name:            req.Name,
		TrackingMode:    req.TrackingMode,
		DefaultCurrency: req.DefaultCurrency,
		ExchangeRates:   req.ExchangeRates,
	}
	if err := s.trips.CreateTrip(r.Context(), trip, middleware.GetUserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (s *Server) handleSetRates(w http.ResponseWriter, r *http.Request) {
	var rates map[string]decimal.Decimal
	if err := decodeBody(r, &rates); err != nil {
		respondError(w, err)
		return
	}

	if err := s.trips.SetExchangeRates(r.Context(), mux.Vars(r)["tripID"], rates); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addParticipantRequest struct {
	Name     string `json:"name"`
	FamilyID string `json:"family_id"`
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req addParticipantRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p := &models.Participant{
		TripID:   mux.Vars(r)["tripID"],
		Name:     req.Name,
		FamilyID: req.FamilyID,
	}
	if err := s.trips.AddParticipant(r.Context(), p); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.trips.ListParticipants(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, participants)
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.RemoveParticipant(r.Context(), mux.Vars(r)["participantID"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addFamilyRequest struct {
	Name     string `json:"name"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

func (s *Server) handleAddFamily(w http.ResponseWriter, r *http.Request) {
	var req addFamilyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	f := &models.Family{
		TripID:   mux.Vars(r)["tripID"],
		Name:     req.Name,
		Adults:   req.Adults,
		Children: req.Children,
	}
	if err := s.trips.AddFamily(r.Context(), f); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := s.trips.ListFamilies(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, families)
}

func (s *Server) handleRemoveFamily(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.RemoveFamily(r.Context(), mux.Vars(r)["familyID"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
