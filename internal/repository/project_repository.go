package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/model"
)

type ProjectRepositoryInterface interface {
	Create(p *model.Project) error
	GetByID(orgID, id int) (*model.Project, error)
	ListAll(orgID int) ([]model.Project, error)
}

type ProjectRepository struct {
	DB *sql.DB
}

func (r *ProjectRepository) Create(p *model.Project) error {
	p.CreatedAt = time.Now()
	query := `
        INSERT INTO projects (org_id, name, location, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, p.OrgID, p.Name, p.Location, p.CreatedAt).Scan(&p.ID)
}

func (r *ProjectRepository) GetByID(orgID, id int) (*model.Project, error) {
	query := `SELECT id, org_id, name, location, created_at FROM projects WHERE org_id=$1 AND id=$2`
	var p model.Project
	err := r.DB.QueryRow(query, orgID, id).Scan(&p.ID, &p.OrgID, &p.Name, &p.Location, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewProjectNotFound(id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListAll(orgID int) ([]model.Project, error) {
	query := `SELECT id, org_id, name, location, created_at FROM projects WHERE org_id=$1 ORDER BY id DESC`
	rows, err := r.DB.Query(query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Location, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)
