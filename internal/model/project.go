// internal/model/project.go
package model

import "time"

type Project struct {
	ID        int       `db:"id" json:"id"`
	OrgID     int       `db:"org_id" json:"org_id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
