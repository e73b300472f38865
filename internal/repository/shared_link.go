package repository

import (
	"database/sql"
	"errors"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrLinkNotFound = errors.New("shared link not found")
)

type SharedLinkRepository interface {
	Create(link *model.SharedLink) error
	ByToken(token string) (*model.SharedLink, error)
	ByProject(projectID string) (*model.SharedLink, error)
}

type sharedLinkRepository struct {
	db *sqlx.DB
}

func NewSharedLinkRepository(db *sqlx.DB) SharedLinkRepository {
	return &sharedLinkRepository{db: db}
}

func (r *sharedLinkRepository) Create(link *model.SharedLink) error {
	query := `INSERT INTO shared_links (id, project_id, token, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, link.ID, link.ProjectID, link.Token, link.CreatedAt)
	return err
}

func (r *sharedLinkRepository) ByToken(token string) (*model.SharedLink, error) {
	link := &model.SharedLink{}
	query := `SELECT * FROM shared_links WHERE token = $1`

	err := r.db.Get(link, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrLinkNotFound
	}

	return link, err
}

func (r *sharedLinkRepository) ByProject(projectID string) (*model.SharedLink, error) {
	link := &model.SharedLink{}
	query := `SELECT * FROM shared_links WHERE project_id = $1`

	err := r.db.Get(link, query, projectID)
	if err == sql.ErrNoRows {
		return nil, ErrLinkNotFound
	}

	return link, err
}
