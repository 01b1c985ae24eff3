package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/service"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	membership, err := s.groups.AddMember(
		r.Context(),
		chi.URLParam(r, "groupID"),
		req.UserID,
		req.IsAdmin,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, membership)
}

func (s *Server) handleGetGroupSettings(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if err := s.groups.RequireMember(r.Context(), middleware.GetUserID(r.Context()), groupID); err != nil {
		respondError(w, err)
		return
	}

	settings, err := s.expenses.GetGroupSettings(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateGroupSettings(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateGroupSettingsInput
	if err := decode(r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	settings, err := s.expenses.UpdateGroupSettings(
		r.Context(),
		chi.URLParam(r, "groupID"),
		input,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
