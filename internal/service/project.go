package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/storage"
	"github.com/gribpie/gribpie/internal/validation"
)

// ProjectFile is a file flattened with its project, for the all-files view.
type ProjectFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	AccessLevel string `json:"access_level"` // "owner", "edit" or "view"
}

type ProjectService struct {
	projectRepository repository.ProjectRepository
	fileRepository    repository.FileRepository
	storage           storage.Storage
}

func NewProjectService(
	projectRepository repository.ProjectRepository,
	fileRepository repository.FileRepository,
	storage storage.Storage,
) *ProjectService {
	return &ProjectService{
		projectRepository: projectRepository,
		fileRepository:    fileRepository,
		storage:           storage,
	}
}

func (s *ProjectService) Create(ownerID, name string) (*model.Project, error) {
	name = strings.TrimSpace(name)

	err := validation.ValidateProjectName(name)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	err = s.projectRepository.Create(project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) ByID(projectID string) (*model.Project, error) {
	return s.projectRepository.ByID(projectID)
}

// Owned lists the user's own projects.
func (s *ProjectService) Owned(userID string) ([]*model.Project, error) {
	return s.projectRepository.ByOwner(userID)
}

// SharedWith lists projects the user holds a grant on, with the level.
func (s *ProjectService) SharedWith(userID string) ([]*repository.SharedProject, error) {
	return s.projectRepository.SharedWith(userID)
}

// Files lists the files of a single project.
func (s *ProjectService) Files(projectID string) ([]*model.File, error) {
	return s.fileRepository.ByProject(projectID)
}

// AllFiles flattens every file the user can reach, owned projects first.
func (s *ProjectService) AllFiles(userID string) ([]*ProjectFile, error) {
	var all []*ProjectFile

	owned, err := s.projectRepository.ByOwner(userID)
	if err != nil {
		return nil, err
	}

	for _, project := range owned {
		files, err := s.fileRepository.ByProject(project.ID)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			all = append(all, &ProjectFile{
				ID:          file.ID,
				Filename:    file.Filename,
				Size:        file.Size,
				ProjectID:   project.ID,
				ProjectName: project.Name,
				AccessLevel: "owner",
			})
		}
	}

	shared, err := s.projectRepository.SharedWith(userID)
	if err != nil {
		return nil, err
	}

	for _, project := range shared {
		files, err := s.fileRepository.ByProject(project.ID)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			all = append(all, &ProjectFile{
				ID:          file.ID,
				Filename:    file.Filename,
				Size:        file.Size,
				ProjectID:   project.ID,
				ProjectName: project.Name,
				AccessLevel: project.AccessLevel,
			})
		}
	}

	return all, nil
}

// Delete removes the project and everything hanging off it. Only the owner
// may delete. Stored bytes go first; the row deletion then cascades to
// files, grants and the shared link, so an old share token resolves to
// nothing afterwards.
func (s *ProjectService) Delete(projectID, requestorID string) error {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return err
	}

	if !project.IsOwner(requestorID) {
		return ErrForbidden
	}

	err = s.storage.DeletePrefix(projectID)
	if err != nil {
		// Rows stay consistent either way; orphaned blobs are recoverable,
		// dangling file records are not
		slog.Warn("failed to delete project blobs", "error", err, "project_id", projectID)
	}

	return s.projectRepository.Delete(projectID)
}
