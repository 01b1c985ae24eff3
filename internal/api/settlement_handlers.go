package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"
)

type markPaidRequest struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes,omitempty"`
}

func (s *Server) handleGetGroupDebts(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	summaries, err := s.settlements.GetGroupDebtSummary(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetUserDebt(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	summary, err := s.settlements.GetUserDebtSummary(r.Context(), chi.URLParam(r, "userID"), groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	if summary == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "user is not a member of this group"})
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGenerateSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireAdmin(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	settlements, err := s.settlements.GenerateOptimalSettlements(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, settlements)
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSettlementInput
	if err := decode(r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	settlement, err := s.settlements.CreateSettlement(r.Context(), input, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, settlement)
}

func (s *Server) handleBulkCreateSettlements(w http.ResponseWriter, r *http.Request) {
	var inputs []service.CreateSettlementInput
	if err := decode(r, &inputs); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if len(inputs) == 0 {
		badRequest(w, "at least one settlement is required")
		return
	}

	// Admin-only, for every group named in the batch.
	userID := middleware.GetUserID(r.Context())
	checked := make(map[string]bool)
	for _, input := range inputs {
		if checked[input.GroupID] {
			continue
		}
		if err := s.groups.RequireAdmin(r.Context(), userID, input.GroupID); err != nil {
			respondError(w, err)
			return
		}
		checked[input.GroupID] = true
	}

	settlements, err := s.settlements.BulkCreateSettlements(r.Context(), inputs, userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, settlements)
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.GetSettlement(r.Context(), chi.URLParam(r, "settlementID"))
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), settlement.GroupID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleUpdateSettlement(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateSettlementInput
	if err := decode(r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	settlement, err := s.settlements.UpdateSettlement(
		r.Context(),
		chi.URLParam(r, "settlementID"),
		input,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleDeleteSettlement(w http.ResponseWriter, r *http.Request) {
	err := s.settlements.DeleteSettlement(r.Context(), chi.URLParam(r, "settlementID"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkSettlementPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	settlement, err := s.settlements.MarkSettlementPaid(
		r.Context(),
		chi.URLParam(r, "settlementID"),
		req.PaymentMethod,
		req.Notes,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleGetGroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	settlements, err := s.settlements.GetGroupSettlements(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlements)
}

func (s *Server) handleGetMySettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.settlements.GetUserSettlements(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlements)
}
