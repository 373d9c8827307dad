// internal/model/lead.go
package model

import "time"

type Lead struct {
	ID            int       `db:"id" json:"id"`
	OrgID         int       `db:"org_id" json:"org_id"`
	Name          string    `db:"name" json:"name"`
	Phone         string    `db:"phone" json:"phone"` // normalized, +91 followed by 10 digits
	Email         string    `db:"email" json:"email,omitempty"`
	ProjectID     *int      `db:"project_id" json:"project_id,omitempty"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	Status        string    `db:"status" json:"status"` // new, contacted, qualified, dropped
	ImportBatchID string    `db:"import_batch_id" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
