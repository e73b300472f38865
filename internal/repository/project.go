package repository

import (
	"database/sql"
	"errors"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

// SharedProject is a project joined with the caller's grant level.
type SharedProject struct {
	model.Project
	AccessLevel string `db:"access_level"`
}

type ProjectRepository interface {
	Create(project *model.Project) error
	ByID(id string) (*model.Project, error)
	ByOwner(userID string) ([]*model.Project, error)
	SharedWith(userID string) ([]*SharedProject, error)
	Delete(id string) error
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	query := `INSERT INTO projects (id, user_id, name, storage_used, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, project.ID, project.UserID, project.Name, project.StorageUsed, project.CreatedAt)
	return err
}

func (r *projectRepository) ByID(id string) (*model.Project, error) {
	project := &model.Project{}
	query := `SELECT * FROM projects WHERE id = $1`

	err := r.db.Get(project, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}

	return project, err
}

func (r *projectRepository) ByOwner(userID string) ([]*model.Project, error) {
	var projects []*model.Project
	query := `SELECT * FROM projects WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&projects, query, userID)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) SharedWith(userID string) ([]*SharedProject, error) {
	var projects []*SharedProject
	query := `SELECT p.*, pa.access_level FROM projects p
	          JOIN project_access pa ON pa.project_id = p.id
	          WHERE pa.user_id = $1 ORDER BY p.created_at DESC`

	err := r.db.Select(&projects, query, userID)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Delete removes the project row. Files, grants and the shared link go with
// it via ON DELETE CASCADE; stored bytes are the service's responsibility.
func (r *projectRepository) Delete(id string) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProjectNotFound
	}

	return nil
}
