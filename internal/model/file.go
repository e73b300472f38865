package model

import (
	"time"
)

type File struct {
	ID          string    `db:"id"`
	ProjectID   string    `db:"project_id"`
	Filename    string    `db:"filename"`     // User-facing name, metadata only
	StoragePath string    `db:"storage_path"` // Opaque key, never derived from Filename
	Size        int64     `db:"size"`
	CreatedAt   time.Time `db:"created_at"`
}
