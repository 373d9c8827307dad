// internal/model/call_log.go
package model

import "time"

type CallLog struct {
	ID          int       `db:"id" json:"id"`
	CampaignID  int       `db:"campaign_id" json:"campaign_id"`
	LeadID      int       `db:"lead_id" json:"lead_id"`
	LeadName    string    `db:"lead_name" json:"lead_name"`
	Phone       string    `db:"phone" json:"phone"`
	Status      string    `db:"status" json:"status"`   // pending, completed, failed
	Outcome     string    `db:"outcome" json:"outcome"` // answered, no_answer, busy, voicemail, declined, failed
	Transferred bool      `db:"transferred" json:"transferred"`
	Script      string    `db:"script" json:"script,omitempty"`
	LastError   string    `db:"last_error" json:"last_error,omitempty"`
	RetryCount  int       `db:"retry_count" json:"retry_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
