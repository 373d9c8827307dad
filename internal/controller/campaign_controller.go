// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realtycall/realtycall-backend/internal/middleware"
	"github.com/realtycall/realtycall-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	starts          *startGuard
}

func NewCampaignController(svc *service.CampaignService) *CampaignController {
	return &CampaignController{
		CampaignService: svc,
		starts:          newStartGuard(),
	}
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var body service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(orgID, body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"campaign": campaign})
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")
	projectID, _ := strconv.Atoi(r.URL.Query().Get("project_id"))

	campaigns, pagination, err := c.CampaignService.ListCampaigns(orgID, page, pageSize, status, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid campaign id"})
		return
	}

	var patch service.CampaignPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	campaign, err := c.CampaignService.UpdateCampaign(orgID, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}

// DeleteCampaign is irreversible; the UI collects the user's confirmation
// before this endpoint is called.
func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid campaign id"})
		return
	}

	if err := c.CampaignService.DeleteCampaign(orgID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid campaign id"})
		return
	}

	if !c.starts.acquire(id) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "campaign start already in progress"})
		return
	}
	defer c.starts.release(id)

	campaign, summary, err := c.CampaignService.StartCampaign(orgID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	for _, call := range summary.Calls {
		middleware.RecordCall(call.Outcome)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
		"summary":  summary,
	})
}
