// internal/controller/http.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/importer"
)

// orgIDFrom reads the tenant identifier every operation is scoped by.
// There is no ambient/global org state; a request without one is rejected.
func orgIDFrom(r *http.Request) (int, error) {
	raw := r.Header.Get("X-Org-ID")
	if raw == "" {
		return 0, errors.New("missing X-Org-ID header")
	}
	orgID, err := strconv.Atoi(raw)
	if err != nil || orgID <= 0 {
		return 0, errors.New("invalid X-Org-ID header")
	}
	return orgID, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var validationErr *appErrors.ValidationError
	var formatErr *importer.FormatError
	var campaignNotFound *appErrors.ErrCampaignNotFound
	var projectNotFound *appErrors.ErrProjectNotFound
	var invalidState *appErrors.InvalidStateError
	var startErr *appErrors.StartCampaignError
	var collabErr *appErrors.CollaboratorError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &formatErr):
		status = http.StatusBadRequest
	case errors.Is(err, importer.ErrNoValidRows):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &campaignNotFound), errors.As(err, &projectNotFound):
		status = http.StatusNotFound
	case errors.As(err, &invalidState):
		status = http.StatusConflict
	case errors.As(err, &startErr), errors.As(err, &collabErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// startGuard serializes campaign starts per campaign id. A second start
// while one is in flight gets rejected instead of racing the first.
type startGuard struct {
	mu       sync.Mutex
	inflight map[int]bool
}

func newStartGuard() *startGuard {
	return &startGuard{inflight: make(map[int]bool)}
}

func (g *startGuard) acquire(campaignID int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[campaignID] {
		return false
	}
	g.inflight[campaignID] = true
	return true
}

func (g *startGuard) release(campaignID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, campaignID)
}
