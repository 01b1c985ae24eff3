// Package api exposes the HTTP interface: a chi router with JSON handlers
// over the service layer. Authentication is JWT via the Authorization
// header; all group and settlement routes require a valid token.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/service"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	auth        *service.AuthService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	jwtManager  *auth.JWTManager
}

// NewServer creates the HTTP server facade over the given services.
func NewServer(
	authService *service.AuthService,
	groupService *service.GroupService,
	expenseService *service.ExpenseService,
	settlementService *service.SettlementService,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		auth:        authService,
		groups:      groupService,
		expenses:    expenseService,
		settlements: settlementService,
		jwtManager:  jwtManager,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics("api"))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwtManager))

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", s.handleCreateGroup)
				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", s.handleGetGroup)
					r.Post("/members", s.handleAddMember)
					r.Get("/settings", s.handleGetGroupSettings)
					r.Patch("/settings", s.handleUpdateGroupSettings)
					r.Get("/expenses", s.handleGetGroupExpenses)
					r.Get("/debts", s.handleGetGroupDebts)
					r.Get("/debts/{userID}", s.handleGetUserDebt)
					r.Get("/settlements", s.handleGetGroupSettlements)
					r.Post("/settlements/generate", s.handleGenerateSettlements)
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.handleCreateExpense)
				r.Route("/{expenseID}", func(r chi.Router) {
					r.Get("/", s.handleGetExpense)
					r.Patch("/", s.handleUpdateExpense)
					r.Delete("/", s.handleDeleteExpense)
				})
			})

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/", s.handleCreateSettlement)
				r.Post("/bulk", s.handleBulkCreateSettlements)
				r.Route("/{settlementID}", func(r chi.Router) {
					r.Get("/", s.handleGetSettlement)
					r.Patch("/", s.handleUpdateSettlement)
					r.Delete("/", s.handleDeleteSettlement)
					r.Post("/pay", s.handleMarkSettlementPaid)
				})
			})

			r.Get("/me/expenses", s.handleGetMyExpenses)
			r.Get("/me/settlements", s.handleGetMySettlements)
		})
	})

	return r
}
