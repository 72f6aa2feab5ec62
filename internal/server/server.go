// Package server exposes the application services as a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"tripledger/internal/auth"
	"tripledger/internal/middleware"
	"tripledger/internal/service"
)

// Server routes HTTP requests to the application services.
type Server struct {
	router   *mux.Router
	auth     *service.AuthService
	trips    *service.TripService
	expenses *service.ExpenseService
	balances *service.BalanceService
}

// New builds the API router with all routes registered.
func New(
	authSvc *service.AuthService,
	trips *service.TripService,
	expenses *service.ExpenseService,
	balances *service.BalanceService,
	jwtManager *auth.JWTManager,
) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		auth:     authSvc,
		trips:    trips,
		expenses: expenses,
		balances: balances,
	}

	s.router.Use(middleware.Metrics(routeTemplate), middleware.Logging)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(jwtManager))

	authed.HandleFunc("/auth/me", s.handleCurrentUser).Methods(http.MethodGet)

	authed.HandleFunc("/trips", s.handleCreateTrip).Methods(http.MethodPost)
	authed.HandleFunc("/trips", s.handleListTrips).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}", s.handleGetTrip).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/rates", s.handleSetRates).Methods(http.MethodPut)

	authed.HandleFunc("/trips/{tripID}/participants", s.handleAddParticipant).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/participants", s.handleListParticipants).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/participants/{participantID}", s.handleRemoveParticipant).Methods(http.MethodDelete)

	authed.HandleFunc("/trips/{tripID}/families", s.handleAddFamily).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/families", s.handleListFamilies).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/families/{familyID}", s.handleRemoveFamily).Methods(http.MethodDelete)

	authed.HandleFunc("/trips/{tripID}/expenses", s.handleAddExpense).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/expenses", s.handleListExpenses).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/expenses/{expenseID}", s.handleRemoveExpense).Methods(http.MethodDelete)

	authed.HandleFunc("/trips/{tripID}/settlements", s.handleAddSettlement).Methods(http.MethodPost)
	authed.HandleFunc("/trips/{tripID}/settlements", s.handleListSettlements).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/settlements/{settlementID}", s.handleRemoveSettlement).Methods(http.MethodDelete)

	authed.HandleFunc("/trips/{tripID}/balances", s.handleBalances).Methods(http.MethodGet)
	authed.HandleFunc("/trips/{tripID}/settle-up", s.handleSettleUp).Methods(http.MethodGet)

	return s
}

// Handler wraps the router with CORS for browser clients.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(s.router)
}

// routeTemplate labels metrics with the matched route pattern instead of
// the raw URL, keeping label cardinality bounded.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
