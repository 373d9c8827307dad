// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/service"
)

// CampaignHandler serves the campaign detail read with per-outcome stats
type CampaignHandler struct {
	Service *service.CampaignService
}

func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{Service: svc}
}

func (h *CampaignHandler) GetCampaignWithStats(w http.ResponseWriter, r *http.Request) {
	orgIDStr := r.Header.Get("X-Org-ID")
	orgID, err := strconv.Atoi(orgIDStr)
	if err != nil || orgID <= 0 {
		http.Error(w, "missing or invalid X-Org-ID header", http.StatusBadRequest)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetCampaignDetailsWithStats(orgID, id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch campaign: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}
