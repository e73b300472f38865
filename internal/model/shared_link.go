package model

import (
	"time"
)

// SharedLink is a public-read bearer capability for a project.
// At most one exists per project; the token never expires or rotates.
type SharedLink struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
