package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gribpie/gribpie/internal/ctxkeys"
	"github.com/gribpie/gribpie/internal/flash"
	"github.com/gribpie/gribpie/internal/service"
)

type fileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *fileHandler {
	return &fileHandler{fileService: fileService}
}

// Upload accepts a multipart file body and stores it in the project,
// subject to the per-project file-count and byte ceilings.
func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")

	src, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			limit := "the configured limit"
			if cfg := ctxkeys.Config(r.Context()); cfg != nil {
				limit = humanize.IBytes(uint64(cfg.MaxUploadBytes))
			}
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File is too large. Maximum size: %s", limit))
			return
		}

		redirectFlash(w, r, flash.CategoryDanger, "No file selected", backOr(r, "/dashboard"))
		return
	}
	defer func() { _ = src.Close() }()

	_, err = h.fileService.Upload(projectID, user.ID, header.Filename, src, header.Size)
	if err != nil {
		slog.Warn("upload failed", "error", err, "project_id", projectID, "user_id", user.ID)

		msg := "Failed to upload file"
		switch errorStatus(err) {
		case http.StatusForbidden:
			msg = "You do not have permission to upload files to this project"
		case http.StatusNotFound:
			msg = "Project not found"
		case http.StatusBadRequest:
			msg = err.Error()
		}

		redirectFlash(w, r, flash.CategoryDanger, msg, backOr(r, "/dashboard"))
		return
	}

	slog.Info("file uploaded", "project_id", projectID, "user_id", user.ID, "size", header.Size)
	redirectFlash(w, r, flash.CategorySuccess, "File uploaded successfully!", "/dashboard")
}

// Download streams the file as an attachment. Owner or any access level.
func (h *fileHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("fileID")

	file, src, err := h.fileService.Download(fileID, user.ID)
	if err != nil {
		slog.Warn("download failed", "error", err, "file_id", fileID, "user_id", user.ID)

		msg := "Failed to download file"
		switch errorStatus(err) {
		case http.StatusForbidden:
			msg = "You do not have access to this file"
		case http.StatusNotFound:
			msg = "File not found"
		}

		redirectFlash(w, r, flash.CategoryDanger, msg, "/dashboard")
		return
	}
	defer func() { _ = src.Close() }()

	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.Size))

	_, err = io.Copy(w, src)
	if err != nil {
		slog.Warn("download interrupted", "error", err, "file_id", fileID)
	}
}

// Delete removes the file. Owner or edit access.
func (h *fileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("fileID")

	err := h.fileService.Delete(fileID, user.ID)
	if err != nil {
		slog.Warn("file delete failed", "error", err, "file_id", fileID, "user_id", user.ID)

		msg := "Failed to delete file"
		switch errorStatus(err) {
		case http.StatusForbidden:
			msg = "You do not have permission to delete files in this project"
		case http.StatusNotFound:
			msg = "File not found"
		}

		redirectFlash(w, r, flash.CategoryDanger, msg, "/dashboard")
		return
	}

	slog.Info("file deleted", "file_id", fileID, "user_id", user.ID)
	redirectFlash(w, r, flash.CategorySuccess, "File deleted successfully!", "/dashboard")
}
