package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/storage"
)

var (
	ErrEmptyFilename = errors.New("no file selected")
)

// QuotaError reports a rejected upload together with the space still
// available, for user feedback.
type QuotaError struct {
	Remaining int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("not enough space: only %s left", humanize.IBytes(uint64(e.Remaining)))
}

func (e *QuotaError) Unwrap() error {
	return repository.ErrQuotaExceeded
}

// FileService is the quota-enforced file store. Uploads pass authorization,
// then the count and byte ceilings, inside one transaction that also keeps
// projects.storage_used equal to the sum of the project's file sizes.
type FileService struct {
	fileRepository     repository.FileRepository
	projectRepository  repository.ProjectRepository
	accessService      *AccessService
	storage            storage.Storage
	maxFilesPerProject int
	maxProjectBytes    int64
}

func NewFileService(
	fileRepository repository.FileRepository,
	projectRepository repository.ProjectRepository,
	accessService *AccessService,
	storage storage.Storage,
	maxFilesPerProject int,
	maxProjectBytes int64,
) *FileService {
	return &FileService{
		fileRepository:     fileRepository,
		projectRepository:  projectRepository,
		accessService:      accessService,
		storage:            storage,
		maxFilesPerProject: maxFilesPerProject,
		maxProjectBytes:    maxProjectBytes,
	}
}

// storageKey builds the opaque blob key for a new file. The user-supplied
// filename contributes only its extension; the name itself never reaches the
// filesystem.
func storageKey(projectID, filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	return projectID + "/" + uuid.New().String() + ext
}

// Upload stores the bytes and records the file, enforcing the per-project
// file-count and byte ceilings. The quota check and the storage_used
// increment happen atomically, so concurrent uploads cannot jointly exceed
// the quota. Blob and record never diverge: a failed record insert removes
// the blob again.
func (s *FileService) Upload(projectID, uploaderID, filename string, src io.Reader, size int64) (*model.File, error) {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return nil, err
	}

	canEdit, err := s.accessService.CanEdit(project, uploaderID)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, ErrForbidden
	}

	if filename == "" {
		return nil, ErrEmptyFilename
	}

	file := &model.File{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Filename:    filename,
		StoragePath: storageKey(projectID, filename),
		Size:        size,
		CreatedAt:   time.Now(),
	}

	err = s.storage.Save(file.StoragePath, src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	err = s.fileRepository.CreateWithQuota(file, s.maxFilesPerProject, s.maxProjectBytes)
	if err != nil {
		delErr := s.storage.Delete(file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete blob during upload cleanup", "error", delErr, "key", file.StoragePath)
		}

		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, &QuotaError{Remaining: s.remainingSpace(projectID)}
		}
		return nil, err
	}

	return file, nil
}

func (s *FileService) remainingSpace(projectID string) int64 {
	project, err := s.projectRepository.ByID(projectID)
	if err != nil {
		return 0
	}

	remaining := s.maxProjectBytes - project.StorageUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Download returns the file's metadata and a reader over its bytes.
// Any access level suffices: owner, edit or view.
func (s *FileService) Download(fileID, requesterID string) (*model.File, io.ReadCloser, error) {
	file, err := s.fileRepository.ByID(fileID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.projectRepository.ByID(file.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	canView, err := s.accessService.CanView(project, requesterID)
	if err != nil {
		return nil, nil, err
	}
	if !canView {
		return nil, nil, ErrForbidden
	}

	src, err := s.storage.Open(file.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	return file, src, nil
}

// Delete removes the file. Requires owner or edit access. The record removal
// and the storage_used decrement commit together; only then are the bytes
// removed, so a storage failure can orphan a blob but never break the
// storage_used invariant.
func (s *FileService) Delete(fileID, requesterID string) error {
	file, err := s.fileRepository.ByID(fileID)
	if err != nil {
		return err
	}

	project, err := s.projectRepository.ByID(file.ProjectID)
	if err != nil {
		return err
	}

	canEdit, err := s.accessService.CanEdit(project, requesterID)
	if err != nil {
		return err
	}
	if !canEdit {
		return ErrForbidden
	}

	err = s.fileRepository.DeleteWithQuota(file)
	if err != nil {
		return err
	}

	err = s.storage.Delete(file.StoragePath)
	if err != nil {
		slog.Warn("failed to delete blob", "error", err, "key", file.StoragePath)
	}

	return nil
}
