package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"tripledger/internal/middleware"
	"tripledger/internal/models"
)

type addExpenseRequest struct {
	Description  string              `json:"description"`
	Amount       decimal.Decimal     `json:"amount"`
	Currency     string              `json:"currency"`
	PaidBy       string              `json:"paid_by"`
	Distribution models.Distribution `json:"distribution"`
	Date         int64               `json:"date"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	expense := &models.Expense{
		TripID:       mux.Vars(r)["tripID"],
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PaidBy:       req.PaidBy,
		Distribution: req.Distribution,
		Date:         req.Date,
	}
	if err := s.expenses.AddExpense(r.Context(), expense); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListExpenses(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.RemoveExpense(r.Context(), mux.Vars(r)["expenseID"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addSettlementRequest struct {
	FromEntityID string          `json:"from_entity_id"`
	ToEntityID   string          `json:"to_entity_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Date         int64           `json:"date"`
	Note         string          `json:"note"`
}

func (s *Server) handleAddSettlement(w http.ResponseWriter, r *http.Request) {
	var req addSettlementRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	settlement := &models.Settlement{
		TripID:       mux.Vars(r)["tripID"],
		FromEntityID: req.FromEntityID,
		ToEntityID:   req.ToEntityID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Date:         req.Date,
		Note:         req.Note,
	}
	userID := middleware.GetUserID(r.Context())
	if err := s.expenses.AddSettlement(r.Context(), settlement, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, settlement)
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.expenses.ListSettlements(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settlements)
}

func (s *Server) handleRemoveSettlement(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.RemoveSettlement(r.Context(), mux.Vars(r)["settlementID"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.balances.GetBalanceSheet(r.Context(), mux.Vars(r)["tripID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleSettleUp(w http.ResponseWriter, r *http.Request) {
	entityID := r.URL.Query().Get("entity")
	plan, err := s.balances.GetSettlementPlan(r.Context(), mux.Vars(r)["tripID"], entityID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}
