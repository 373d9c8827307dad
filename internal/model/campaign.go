// internal/model/campaign.go
package model

import "time"

type CampaignStatus string

const (
	StatusScheduled CampaignStatus = "scheduled"
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
	StatusCancelled CampaignStatus = "cancelled"
)

type Campaign struct {
	ID               int            `db:"id" json:"id"`
	OrgID            int            `db:"org_id" json:"org_id"`
	Name             string         `db:"name" json:"name"`
	Description      string         `db:"description" json:"description,omitempty"`
	ProjectID        int            `db:"project_id" json:"project_id"`
	Status           CampaignStatus `db:"status" json:"status"`
	StartDate        time.Time      `db:"start_date" json:"start_date"`
	EndDate          time.Time      `db:"end_date" json:"end_date"`
	TimeStart        string         `db:"time_start" json:"time_start"` // HH:MM, daily calling window
	TimeEnd          string         `db:"time_end" json:"time_end"`
	CallScript       string         `db:"call_script" json:"call_script,omitempty"`
	TotalCalls       int            `db:"total_calls" json:"total_calls"`
	TransferredCalls int            `db:"transferred_calls" json:"transferred_calls"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// transitions lists the statuses reachable from each non-terminal status.
// completed and cancelled have no outgoing edges.
var transitions = map[CampaignStatus][]CampaignStatus{
	StatusScheduled: {StatusActive, StatusPaused, StatusCancelled},
	StatusActive:    {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused:    {StatusActive, StatusCancelled},
}

// CanTransition reports whether a campaign may move from one status to another.
func CanTransition(from, to CampaignStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(s CampaignStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

func IsValidStatus(s CampaignStatus) bool {
	switch s {
	case StatusScheduled, StatusActive, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
