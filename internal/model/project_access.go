package model

import (
	"time"
)

const (
	AccessLevelView = "view"
	AccessLevelEdit = "edit"
)

// ProjectAccess grants a non-owner user rights on a project.
// Unique per (project, user); the level is fixed at grant time.
type ProjectAccess struct {
	ID          string    `db:"id"`
	ProjectID   string    `db:"project_id"`
	UserID      string    `db:"user_id"`
	AccessLevel string    `db:"access_level"`
	CreatedAt   time.Time `db:"created_at"`
}

// Grantee is a grant joined with the grantee's username, for listings.
type Grantee struct {
	UserID      string `db:"user_id" json:"id"`
	Username    string `db:"username" json:"username"`
	AccessLevel string `db:"access_level" json:"access_level"`
}

func ValidAccessLevel(level string) bool {
	return level == AccessLevelView || level == AccessLevelEdit
}
