package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/importer"
	"github.com/realtycall/realtycall-backend/internal/service"
)

func TestCommitImportRequiresCandidates(t *testing.T) {
	svc := &service.LeadImportService{LeadRepo: &memLeadRepo{}}

	_, err := svc.CommitImport(1, nil, nil)

	var validationErr *appErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "candidates", validationErr.Field)
}

func TestCommitImportSurfacesStoreErrors(t *testing.T) {
	repo := &memLeadRepo{bulkErr: errors.New("duplicate key value violates unique constraint")}
	svc := &service.LeadImportService{LeadRepo: repo}

	_, err := svc.CommitImport(1, []importer.LeadCandidate{{Name: "John", Phone: "+919876543210"}}, nil)

	var collabErr *appErrors.CollaboratorError
	require.ErrorAs(t, err, &collabErr)
	assert.Contains(t, collabErr.Error(), "duplicate key")
}

// End-to-end: parse a CSV with two valid rows and one malformed number,
// review the preview, commit the candidates against one project.
func TestImportPreviewThenCommit(t *testing.T) {
	repo := &memLeadRepo{}
	svc := &service.LeadImportService{LeadRepo: repo}

	csv := "name,phone,email\nJohn,9876543210,john@example.com\nPriya,919812345678,\nBad,123,\n"

	preview, err := svc.PreviewImport(csv)
	require.NoError(t, err)
	require.Len(t, preview.Valid, 2)
	assert.Equal(t, 1, preview.InvalidCount)
	assert.Equal(t, "+919876543210", preview.Valid[0].Phone)
	assert.Equal(t, "+919812345678", preview.Valid[1].Phone)

	result, err := svc.CommitImport(1, preview.Valid, intPtr(7))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.NotEmpty(t, result.BatchID)

	require.Equal(t, 1, repo.bulkCalls, "exactly one persistence call per commit")
	assert.Equal(t, 1, repo.bulkOrgID)
	assert.Equal(t, preview.Valid, repo.bulkCandidates)
	require.NotNil(t, repo.bulkProjectID)
	assert.Equal(t, 7, *repo.bulkProjectID)
	assert.Equal(t, result.BatchID, repo.bulkBatchID)
}
