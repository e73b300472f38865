package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	qrcode "github.com/skip2/go-qrcode"
)

// ShareView is everything a share-token holder gets to see: the project, its
// files and its grantee list. No identity check applies.
type ShareView struct {
	Project  *model.Project
	Files    []*model.File
	Grantees []*model.Grantee
}

// ShareService mints and resolves public share links. A link is a bearer
// capability: one unguessable token per project, read access to everything
// in it, no expiry.
type ShareService struct {
	linkRepository    repository.SharedLinkRepository
	projectRepository repository.ProjectRepository
	fileRepository    repository.FileRepository
	accessRepository  repository.ProjectAccessRepository
	baseURL           string
}

func NewShareService(
	linkRepository repository.SharedLinkRepository,
	projectRepository repository.ProjectRepository,
	fileRepository repository.FileRepository,
	accessRepository repository.ProjectAccessRepository,
	baseURL string,
) *ShareService {
	return &ShareService{
		linkRepository:    linkRepository,
		projectRepository: projectRepository,
		fileRepository:    fileRepository,
		accessRepository:  accessRepository,
		baseURL:           baseURL,
	}
}

// GetOrCreateLink returns the project's share link, minting one on first
// call. Idempotent: repeated calls return the same token. Owner-only.
func (s *ShareService) GetOrCreateLink(projectID, requestorID string) (*model.SharedLink, error) {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwner(requestorID) {
		return nil, ErrForbidden
	}

	link, err := s.linkRepository.ByProject(projectID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrLinkNotFound) {
		return nil, err
	}

	link = &model.SharedLink{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Token:     uuid.New().String(),
		CreatedAt: time.Now(),
	}

	err = s.linkRepository.Create(link)
	if err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}

	return link, nil
}

// ShareURL is the canonical public URL for a token.
func (s *ShareService) ShareURL(token string) string {
	return fmt.Sprintf("%s/share/%s", s.baseURL, token)
}

// Resolve looks up a token and returns the shared project's contents.
// Public: no authentication, the token is the whole credential. Grantees are
// included, usernames and all.
func (s *ShareService) Resolve(token string) (*ShareView, error) {
	link, err := s.linkRepository.ByToken(token)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepository.ByID(link.ProjectID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepository.ByProject(project.ID)
	if err != nil {
		return nil, err
	}

	grantees, err := s.accessRepository.Grantees(project.ID)
	if err != nil {
		return nil, err
	}

	return &ShareView{
		Project:  project,
		Files:    files,
		Grantees: grantees,
	}, nil
}

// QRCode renders the share URL as a PNG. Pure function of token and base
// URL; always the same image for the same inputs.
func (s *ShareService) QRCode(token string) ([]byte, error) {
	png, err := qrcode.Encode(s.ShareURL(token), qrcode.Low, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return png, nil
}
