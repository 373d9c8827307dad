package repository

import (
	"database/sql"
	"fmt"

	"github.com/realtycall/realtycall-backend/internal/importer"
	"github.com/realtycall/realtycall-backend/internal/model"
)

// LeadRepositoryInterface defines methods used by the services
type LeadRepositoryInterface interface {
	List(orgID int, status, search string) ([]model.Lead, error)
	ListByProject(orgID, projectID int) ([]model.Lead, error)
	BulkCreate(orgID int, candidates []importer.LeadCandidate, projectID *int, batchID string) (int, error)
}

// LeadRepository is the concrete implementation
type LeadRepository struct {
	DB *sql.DB
}

const leadColumns = `id, org_id, name, phone, email, project_id, notes, status, import_batch_id, created_at`

func scanLead(rows *sql.Rows) (model.Lead, error) {
	var l model.Lead
	var email, notes, batchID sql.NullString
	err := rows.Scan(&l.ID, &l.OrgID, &l.Name, &l.Phone, &email, &l.ProjectID,
		&notes, &l.Status, &batchID, &l.CreatedAt)
	l.Email = email.String
	l.Notes = notes.String
	l.ImportBatchID = batchID.String
	return l, err
}

// List fetches leads filtered by status and a name/phone search term
func (r *LeadRepository) List(orgID int, status, search string) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE org_id=$1`
	args := []interface{}{orgID}
	argPos := 2

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR phone LIKE $%d)", argPos, argPos+1)
		args = append(args, "%"+search+"%", "%"+search+"%")
		argPos += 2
	}
	query += " ORDER BY id DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// ListByProject fetches the leads a campaign against that project will dial
func (r *LeadRepository) ListByProject(orgID, projectID int) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE org_id=$1 AND project_id=$2 ORDER BY id`
	rows, err := r.DB.Query(query, orgID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// BulkCreate inserts an import batch in a single transaction. All-or-nothing:
// any insert error rolls back the whole batch. Candidates that fail the
// server-side validity check are skipped, so the returned count may be lower
// than the number submitted.
func (r *LeadRepository) BulkCreate(orgID int, candidates []importer.LeadCandidate, projectID *int, batchID string) (int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO leads (org_id, name, phone, email, project_id, notes, status, import_batch_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, 'new', $7, NOW())
    `
	count := 0
	for _, cand := range candidates {
		phone, ok := importer.NormalizePhone(cand.Phone)
		if cand.Name == "" || !ok {
			continue
		}
		if _, err := tx.Exec(query, orgID, cand.Name, phone,
			nullString(cand.Email), projectID, nullString(cand.Notes), batchID); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
