package repository

import (
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(orgID, id int) (*model.Campaign, error)
	Update(c *model.Campaign) error
	UpdateStatus(orgID, campaignID int, status model.CampaignStatus) error
	UpdateCallStats(orgID, campaignID, totalCalls, transferredCalls int, status model.CampaignStatus) error
	Delete(orgID, id int) error
	ListCampaigns(orgID, offset, limit int, status string, projectID int) ([]*model.Campaign, int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, org_id, name, description, project_id, status, start_date, end_date,
        time_start, time_end, call_script, total_calls, transferred_calls, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.OrgID, &c.Name, &c.Description, &c.ProjectID, &c.Status,
		&c.StartDate, &c.EndDate, &c.TimeStart, &c.TimeEnd, &c.CallScript,
		&c.TotalCalls, &c.TransferredCalls, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.StatusScheduled
	}
	query := `
        INSERT INTO campaigns (org_id, name, description, project_id, status, start_date, end_date,
            time_start, time_end, call_script, total_calls, transferred_calls, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		c.OrgID, c.Name, c.Description, c.ProjectID, c.Status,
		c.StartDate, c.EndDate, c.TimeStart, c.TimeEnd, c.CallScript, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(orgID, id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE org_id=$1 AND id=$2`
	c, err := scanCampaign(r.DB.QueryRow(query, orgID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET name=$1, description=$2, project_id=$3, status=$4, start_date=$5, end_date=$6,
            time_start=$7, time_end=$8, call_script=$9, updated_at=NOW()
        WHERE org_id=$10 AND id=$11
    `
	res, err := r.DB.Exec(query,
		c.Name, c.Description, c.ProjectID, c.Status, c.StartDate, c.EndDate,
		c.TimeStart, c.TimeEnd, c.CallScript, c.OrgID, c.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	return nil
}

func (r *CampaignRepository) UpdateStatus(orgID, campaignID int, status model.CampaignStatus) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE org_id=$3 AND id=$4`
	res, err := r.DB.Exec(query, status, time.Now(), orgID, campaignID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	return nil
}

func (r *CampaignRepository) UpdateCallStats(orgID, campaignID, totalCalls, transferredCalls int, status model.CampaignStatus) error {
	query := `
        UPDATE campaigns
        SET total_calls=$1, transferred_calls=$2, status=$3, updated_at=NOW()
        WHERE org_id=$4 AND id=$5
    `
	res, err := r.DB.Exec(query, totalCalls, transferredCalls, status, orgID, campaignID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	return nil
}

func (r *CampaignRepository) Delete(orgID, id int) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE org_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		// referential constraint failures from the store are surfaced verbatim
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) ListCampaigns(orgID, offset, limit int, status string, projectID int) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE org_id=$1`
	args := []interface{}{orgID}
	argPos := 2

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}
	if projectID > 0 {
		query += fmt.Sprintf(" AND project_id=$%d", argPos)
		args = append(args, projectID)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE org_id=$1`
	argsCount := []interface{}{orgID}
	argPosCount := 2
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
		argPosCount++
	}
	if projectID > 0 {
		countQuery += fmt.Sprintf(" AND project_id=$%d", argPosCount)
		argsCount = append(argsCount, projectID)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
