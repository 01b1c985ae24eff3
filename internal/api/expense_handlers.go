package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/service"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var input service.CreateExpenseInput
	if err := decode(r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	expense, err := s.expenses.CreateExpense(r.Context(), input, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), expense.GroupID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateExpenseInput
	if err := decode(r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	expense, err := s.expenses.UpdateExpense(
		r.Context(),
		chi.URLParam(r, "expenseID"),
		input,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGroupExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	expenses, err := s.expenses.GetGroupExpenses(r.Context(), groupID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetMyExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.GetUserExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}
