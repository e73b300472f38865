package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyGranted = errors.New("user already has access")
	ErrNotGranted     = errors.New("user does not have access")
)

type ProjectAccessRepository interface {
	Create(access *model.ProjectAccess) error
	ByProjectAndUser(projectID, userID string) (*model.ProjectAccess, error)
	Grantees(projectID string) ([]*model.Grantee, error)
	Delete(projectID, userID string) error
}

type projectAccessRepository struct {
	db *sqlx.DB
}

func NewProjectAccessRepository(db *sqlx.DB) ProjectAccessRepository {
	return &projectAccessRepository{db: db}
}

func (r *projectAccessRepository) Create(access *model.ProjectAccess) error {
	query := `INSERT INTO project_access (id, project_id, user_id, access_level, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, access.ID, access.ProjectID, access.UserID, access.AccessLevel, access.CreatedAt)
	if err != nil {
		// UNIQUE(project_id, user_id): a second grant is a conflict, never an
		// upgrade of the existing level
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrAlreadyGranted
		}
		return err
	}

	return nil
}

func (r *projectAccessRepository) ByProjectAndUser(projectID, userID string) (*model.ProjectAccess, error) {
	access := &model.ProjectAccess{}
	query := `SELECT * FROM project_access WHERE project_id = $1 AND user_id = $2`

	err := r.db.Get(access, query, projectID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotGranted
	}

	return access, err
}

func (r *projectAccessRepository) Grantees(projectID string) ([]*model.Grantee, error) {
	var grantees []*model.Grantee
	query := `SELECT pa.user_id, u.username, pa.access_level FROM project_access pa
	          JOIN users u ON u.id = pa.user_id
	          WHERE pa.project_id = $1 ORDER BY u.username ASC`

	err := r.db.Select(&grantees, query, projectID)
	if err != nil {
		return nil, err
	}

	return grantees, nil
}

func (r *projectAccessRepository) Delete(projectID, userID string) error {
	query := `DELETE FROM project_access WHERE project_id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, projectID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotGranted
	}

	return nil
}
