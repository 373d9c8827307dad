// internal/service/lead_import_service.go
package service

import (
	"github.com/google/uuid"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/importer"
	"github.com/realtycall/realtycall-backend/internal/repository"
)

type LeadImportService struct {
	LeadRepo repository.LeadRepositoryInterface
}

type ImportResult struct {
	Count   int    `json:"count"`
	BatchID string `json:"batch_id"`
}

// PreviewImport parses the CSV without persisting anything. Abandoning the
// preview has no side effects.
func (s *LeadImportService) PreviewImport(csvText string) (*importer.ParseResult, error) {
	return importer.ParseLeads(csvText)
}

// CommitImport persists a reviewed candidate set in one batch. All rows
// share the single projectID (nil means unassigned). All-or-nothing: a store
// error means zero rows were persisted. The returned count may be lower than
// the submitted set if the store's own validation drops rows.
func (s *LeadImportService) CommitImport(orgID int, candidates []importer.LeadCandidate, projectID *int) (*ImportResult, error) {
	if len(candidates) == 0 {
		return nil, appErrors.NewValidation("candidates", "must not be empty")
	}

	batchID := uuid.NewString()
	count, err := s.LeadRepo.BulkCreate(orgID, candidates, projectID, batchID)
	if err != nil {
		return nil, &appErrors.CollaboratorError{Op: "bulk-create leads", Message: err.Error()}
	}

	return &ImportResult{Count: count, BatchID: batchID}, nil
}
