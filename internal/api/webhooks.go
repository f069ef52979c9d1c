package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arkadyv/fangate/internal/models"
)

// EventWebhookRequest is one delivery event pushed by the email provider.
// Campaign id travels in a custom header/tag configured on the provider side.
type EventWebhookRequest struct {
	CampaignID string `json:"campaign_id"`
	Email      string `json:"email"`
	Event      string `json:"event"`
	Date       string `json:"date,omitempty"`
}

// mapProviderEvent normalizes provider event names to local event types
func mapProviderEvent(event string) string {
	switch event {
	case "sent", "delivered", "request":
		return models.EventTypeSent
	case "bounce", "hard_bounce", "soft_bounce", "blocked":
		return models.EventTypeBounce
	case "complaint", "spam":
		return models.EventTypeComplaint
	default:
		return ""
	}
}

// handleEventWebhook handles POST /webhooks/events
func (s *Server) handleEventWebhook(w http.ResponseWriter, r *http.Request) {
	if secret := s.cfg.Provider.WebhookSecret; secret != "" {
		if r.Header.Get("X-Webhook-Secret") != secret {
			s.logger.Warn("webhook with bad secret", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var req EventWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CampaignID == "" || req.Email == "" {
		s.sendError(w, http.StatusBadRequest, "campaign_id and email are required")
		return
	}

	eventType := mapProviderEvent(req.Event)
	if eventType == "" {
		// Events the engine does not consume are acknowledged and dropped.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	event := &models.EmailEvent{
		CampaignID: req.CampaignID,
		Email:      req.Email,
		Type:       eventType,
	}
	if req.Date != "" {
		if ts, err := time.Parse(time.RFC3339, req.Date); err == nil {
			event.CreatedAt = ts
		}
	}

	if err := s.events.Record(event); err != nil {
		s.logger.Error("failed to record delivery event", "campaign_id", req.CampaignID, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to record event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
