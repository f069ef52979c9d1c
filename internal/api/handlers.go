package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arkadyv/fangate/internal/models"
	"github.com/arkadyv/fangate/internal/warmup"
)

// CampaignCreateRequest is the request body for POST /campaigns
type CampaignCreateRequest struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// ContactCreateRequest is the request body for POST /contacts
type ContactCreateRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleCampaignCreate handles POST /api/v1/campaigns
func (s *Server) handleCampaignCreate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req CampaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c := &models.Campaign{
		UserID:  user.ID,
		Subject: req.Subject,
		HTML:    req.HTML,
	}
	if err := s.campaigns.Create(c); err != nil {
		s.logger.Error("failed to create campaign", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	s.sendJSON(w, http.StatusCreated, c)
}

// handleCampaignGet handles GET /api/v1/campaigns/{id}
func (s *Server) handleCampaignGet(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id := chi.URLParam(r, "id")

	c, err := s.campaigns.GetByID(id, user.ID)
	if err != nil {
		s.logger.Error("failed to load campaign", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load campaign")
		return
	}
	if c == nil {
		s.sendError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	s.sendJSON(w, http.StatusOK, c)
}

// handleContactCreate handles POST /api/v1/contacts
func (s *Server) handleContactCreate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req ContactCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid email address: %s", req.Email))
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	c := &models.Contact{
		UserID: user.ID,
		Email:  req.Email,
		Name:   req.Name,
		Source: source,
	}
	if err := s.contacts.Create(c); err != nil {
		s.logger.Error("failed to create contact", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	s.sendJSON(w, http.StatusCreated, c)
}

// handleWarmupStart handles POST /api/v1/campaigns/{id}/warmup/start
func (s *Server) handleWarmupStart(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id := chi.URLParam(r, "id")

	preview, err := s.engine.StartWarmup(user.ID, id)
	if err != nil {
		var vErr *warmup.ValidationError
		var cErr *warmup.StateConflictError
		switch {
		case errors.As(err, &vErr):
			s.sendError(w, http.StatusBadRequest, vErr.Reason)
		case errors.As(err, &cErr):
			s.sendError(w, http.StatusConflict, cErr.Reason)
		default:
			s.logger.Error("failed to start warm-up", "campaign_id", id, "error", err)
			s.sendError(w, http.StatusInternalServerError, "Failed to start warm-up")
		}
		return
	}

	s.sendJSON(w, http.StatusOK, preview)
}

// handleWarmupTick handles POST /api/v1/campaigns/{id}/warmup/tick.
// The batch result is an envelope; precondition misses are reported inside
// it with a 200 so unattended schedulers never see a hard failure.
func (s *Server) handleWarmupTick(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id := chi.URLParam(r, "id")

	result, err := s.engine.SendBatch(r.Context(), user.ID, id)
	if err != nil {
		s.logger.Error("warm-up tick failed", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Warm-up tick failed")
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

// handleWarmupStatus handles GET /api/v1/campaigns/{id}/warmup/status
func (s *Server) handleWarmupStatus(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id := chi.URLParam(r, "id")

	status, err := s.engine.GetStatus(user.ID, id)
	if err != nil {
		if errors.Is(err, warmup.ErrCampaignNotFound) {
			s.sendError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		s.logger.Error("failed to load warm-up status", "campaign_id", id, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load status")
		return
	}

	s.sendJSON(w, http.StatusOK, status)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, ErrorResponse{Error: msg})
}
