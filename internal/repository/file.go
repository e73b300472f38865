package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileCountExceeded = errors.New("project file limit reached")
	ErrQuotaExceeded     = errors.New("project storage quota exceeded")
)

type FileRepository interface {
	// CreateWithQuota inserts the file row and increments the project's
	// storage_used in one transaction, enforcing both ceilings.
	CreateWithQuota(file *model.File, maxFiles int, maxBytes int64) error
	// DeleteWithQuota removes the file row and decrements storage_used in
	// one transaction.
	DeleteWithQuota(file *model.File) error
	ByID(id string) (*model.File, error)
	ByProject(projectID string) ([]*model.File, error)
	CountByProject(projectID string) (int, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateWithQuota(file *model.File, maxFiles int, maxBytes int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Conditional increment on the project row. Two concurrent uploads both
	// hit this UPDATE; the row write serializes them, so the second one sees
	// the first one's increment and cannot slip past the ceiling.
	result, err := tx.Exec(
		`UPDATE projects SET storage_used = storage_used + $1
		 WHERE id = $2
		   AND storage_used + $1 <= $3
		   AND (SELECT COUNT(*) FROM files WHERE project_id = $2) < $4`,
		file.Size, file.ProjectID, maxBytes, maxFiles,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve quota: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		// Distinguish which ceiling rejected the upload
		var count int
		err = tx.Get(&count, `SELECT COUNT(*) FROM files WHERE project_id = $1`, file.ProjectID)
		if err != nil {
			return err
		}
		if count >= maxFiles {
			return ErrFileCountExceeded
		}

		var exists bool
		err = tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, file.ProjectID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrProjectNotFound
		}

		return ErrQuotaExceeded
	}

	_, err = tx.Exec(
		`INSERT INTO files (id, project_id, filename, storage_path, size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		file.ID, file.ProjectID, file.Filename, file.StoragePath, file.Size, file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	return tx.Commit()
}

func (r *fileRepository) DeleteWithQuota(file *model.File) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`DELETE FROM files WHERE id = $1`, file.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFileNotFound
	}

	_, err = tx.Exec(
		`UPDATE projects SET storage_used = storage_used - $1 WHERE id = $2`,
		file.Size, file.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}

	return tx.Commit()
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) ByProject(projectID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE project_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&files, query, projectID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) CountByProject(projectID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM files WHERE project_id = $1`
	err := r.db.Get(&count, query, projectID)
	return count, err
}
