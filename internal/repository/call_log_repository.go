package repository

import (
	"database/sql"
	"time"

	"github.com/realtycall/realtycall-backend/internal/model"
)

type CallLogRepositoryInterface interface {
	Create(l *model.CallLog) error
	GetByID(id int) (*model.CallLog, error)
	Update(l *model.CallLog) error
	StatsByCampaign(campaignID int) (map[string]int, error)
}

type CallLogRepository struct {
	DB *sql.DB
}

// Create inserts a new call log and returns the created ID
func (r *CallLogRepository) Create(l *model.CallLog) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
        INSERT INTO call_logs
        (campaign_id, lead_id, lead_name, phone, status, outcome, transferred, script, last_error, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		l.CampaignID,
		l.LeadID,
		l.LeadName,
		l.Phone,
		l.Status,
		l.Outcome,
		l.Transferred,
		l.Script,
		l.LastError,
		l.RetryCount,
		l.CreatedAt,
		l.UpdatedAt,
	).Scan(&l.ID)
}

// GetByID fetches a call log by its ID
func (r *CallLogRepository) GetByID(id int) (*model.CallLog, error) {
	query := `
        SELECT id, campaign_id, lead_id, lead_name, phone, status, outcome, transferred, script, last_error, retry_count, created_at, updated_at
        FROM call_logs
        WHERE id=$1
    `
	var l model.CallLog
	err := r.DB.QueryRow(query, id).Scan(
		&l.ID,
		&l.CampaignID,
		&l.LeadID,
		&l.LeadName,
		&l.Phone,
		&l.Status,
		&l.Outcome,
		&l.Transferred,
		&l.Script,
		&l.LastError,
		&l.RetryCount,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Update updates an existing call log (status, outcome, last_error, retry_count)
func (r *CallLogRepository) Update(l *model.CallLog) error {
	l.UpdatedAt = time.Now()
	query := `
        UPDATE call_logs
        SET status=$1, outcome=$2, transferred=$3, last_error=$4, retry_count=$5, updated_at=$6
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, l.Status, l.Outcome, l.Transferred, l.LastError, l.RetryCount, l.UpdatedAt, l.ID)
	return err
}

// StatsByCampaign counts call logs per outcome for one campaign
func (r *CallLogRepository) StatsByCampaign(campaignID int) (map[string]int, error) {
	query := `SELECT outcome, COUNT(*) FROM call_logs WHERE campaign_id=$1 GROUP BY outcome`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats[outcome] = count
	}
	return stats, nil
}

var _ CallLogRepositoryInterface = (*CallLogRepository)(nil)
