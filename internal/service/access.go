package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
)

var (
	ErrForbidden          = errors.New("access denied")
	ErrInvalidAccessLevel = errors.New("access level must be 'view' or 'edit'")
	ErrInvalidGrantee     = errors.New("cannot grant access to the project owner")
)

// AccessService decides what a (user, project) pair may do.
// The owner may do everything; a grant row gives view, and edit if its level
// says so. Share tokens bypass this entirely (see ShareService).
type AccessService struct {
	accessRepository  repository.ProjectAccessRepository
	projectRepository repository.ProjectRepository
	userRepository    repository.UserRepository
}

func NewAccessService(
	accessRepository repository.ProjectAccessRepository,
	projectRepository repository.ProjectRepository,
	userRepository repository.UserRepository,
) *AccessService {
	return &AccessService{
		accessRepository:  accessRepository,
		projectRepository: projectRepository,
		userRepository:    userRepository,
	}
}

// CanView reports whether the user may read the project's contents.
func (s *AccessService) CanView(project *model.Project, userID string) (bool, error) {
	if project.IsOwner(userID) {
		return true, nil
	}

	_, err := s.accessRepository.ByProjectAndUser(project.ID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotGranted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check access: %w", err)
	}

	return true, nil
}

// CanEdit reports whether the user may upload to or delete from the project.
func (s *AccessService) CanEdit(project *model.Project, userID string) (bool, error) {
	if project.IsOwner(userID) {
		return true, nil
	}

	access, err := s.accessRepository.ByProjectAndUser(project.ID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotGranted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check access: %w", err)
	}

	return access.AccessLevel == model.AccessLevelEdit, nil
}

// Grant gives granteeUsername the named level on the project. Only the owner
// may grant. A second grant for the same user fails with ErrAlreadyGranted
// and never changes the existing level.
func (s *AccessService) Grant(projectID, grantorID, granteeUsername, level string) error {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return err
	}

	if !project.IsOwner(grantorID) {
		return ErrForbidden
	}

	if !model.ValidAccessLevel(level) {
		return ErrInvalidAccessLevel
	}

	grantee, err := s.userRepository.ByUsername(granteeUsername)
	if err != nil {
		return err
	}

	if grantee.ID == project.UserID {
		return ErrInvalidGrantee
	}

	access := &model.ProjectAccess{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		UserID:      grantee.ID,
		AccessLevel: level,
		CreatedAt:   time.Now(),
	}

	return s.accessRepository.Create(access)
}

// Revoke removes a grant. Only the owner may revoke.
func (s *AccessService) Revoke(projectID, requestorID, granteeUserID string) error {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return err
	}

	if !project.IsOwner(requestorID) {
		return ErrForbidden
	}

	return s.accessRepository.Delete(projectID, granteeUserID)
}

// Grantees lists the project's grants with usernames. Owner-only.
func (s *AccessService) Grantees(projectID, requestorID string) ([]*model.Grantee, error) {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwner(requestorID) {
		return nil, ErrForbidden
	}

	return s.accessRepository.Grantees(projectID)
}
