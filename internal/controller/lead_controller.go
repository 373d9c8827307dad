// internal/controller/lead_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/realtycall/realtycall-backend/internal/importer"
	"github.com/realtycall/realtycall-backend/internal/middleware"
	"github.com/realtycall/realtycall-backend/internal/repository"
	"github.com/realtycall/realtycall-backend/internal/service"
)

type LeadController struct {
	ImportService *service.LeadImportService
	LeadRepo      repository.LeadRepositoryInterface
}

// ImportPreview parses the uploaded CSV and returns the reviewable candidate
// set. Nothing is persisted; cancelling the preview has no side effects.
func (c *LeadController) ImportPreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CSV string `json:"csv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	result, err := c.ImportService.PreviewImport(body.CSV)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ImportLeads commits a reviewed candidate set as one batch.
func (c *LeadController) ImportLeads(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var body struct {
		Candidates []importer.LeadCandidate `json:"candidates"`
		ProjectID  *int                     `json:"project_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	result, err := c.ImportService.CommitImport(orgID, body.Candidates, body.ProjectID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadsImported(result.Count)
	writeJSON(w, http.StatusCreated, result)
}

func (c *LeadController) ListLeads(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	leads, err := c.LeadRepo.List(orgID, status, search)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leads": leads})
}
