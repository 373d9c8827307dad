// internal/controller/project_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/repository"
)

type ProjectController struct {
	ProjectRepo repository.ProjectRepositoryInterface
}

func (c *ProjectController) CreateProject(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, appErrors.NewValidation("name", "is required"))
		return
	}

	project := &model.Project{
		OrgID:    orgID,
		Name:     strings.TrimSpace(body.Name),
		Location: body.Location,
	}
	if err := c.ProjectRepo.Create(project); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"project": project})
}

func (c *ProjectController) ListProjects(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDFrom(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	projects, err := c.ProjectRepo.ListAll(orgID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}
