package model

import (
	"time"
)

type Project struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"` // Owning user
	Name        string    `db:"name"`
	StorageUsed int64     `db:"storage_used"` // Kept equal to SUM(files.size) by the file store
	CreatedAt   time.Time `db:"created_at"`
}

func (p *Project) IsOwner(userID string) bool {
	return p.UserID == userID
}
