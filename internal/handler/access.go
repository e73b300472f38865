package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gribpie/gribpie/internal/ctxkeys"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
)

type accessHandler struct {
	accessService *service.AccessService
}

func NewAccessHandler(accessService *service.AccessService) *accessHandler {
	return &accessHandler{accessService: accessService}
}

// ProjectUsers lists the project's grantees. Owner-only.
func (h *accessHandler) ProjectUsers(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")

	grantees, err := h.accessService.Grantees(projectID, user.ID)
	if err != nil {
		status := errorStatus(err)
		msg := "Failed to load users"
		if status == http.StatusForbidden {
			msg = "Access denied"
		} else if status == http.StatusNotFound {
			msg = "Project not found"
		}

		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": grantees})
}

// GrantAccess gives another user view or edit rights on the project.
// Owner-only; a repeated grant is rejected, never upgraded.
func (h *accessHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")
	username := r.FormValue("username")
	level := r.FormValue("access_level")

	err := h.accessService.Grant(projectID, user.ID, username, level)
	if err != nil {
		slog.Warn("grant failed", "error", err, "project_id", projectID, "grantee", username)

		msg := "Failed to grant access"
		switch {
		case errors.Is(err, service.ErrForbidden):
			msg = "Access denied"
		case errors.Is(err, repository.ErrUserNotFound):
			msg = "User not found"
		case errors.Is(err, repository.ErrAlreadyGranted):
			msg = "User already has access"
		case errors.Is(err, repository.ErrProjectNotFound):
			msg = "Project not found"
		case errors.Is(err, service.ErrInvalidAccessLevel),
			errors.Is(err, service.ErrInvalidGrantee):
			msg = err.Error()
		}

		respondError(w, errorStatus(err), msg)
		return
	}

	slog.Info("access granted", "project_id", projectID, "grantee", username, "level", level)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RevokeAccess removes a user's grant. Owner-only.
func (h *accessHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")
	granteeID := r.PathValue("userID")

	err := h.accessService.Revoke(projectID, user.ID, granteeID)
	if err != nil {
		slog.Warn("revoke failed", "error", err, "project_id", projectID, "grantee_id", granteeID)

		msg := "Failed to revoke access"
		switch {
		case errors.Is(err, service.ErrForbidden):
			msg = "Access denied"
		case errors.Is(err, repository.ErrNotGranted):
			msg = "User does not have access"
		case errors.Is(err, repository.ErrProjectNotFound):
			msg = "Project not found"
		}

		respondError(w, errorStatus(err), msg)
		return
	}

	slog.Info("access revoked", "project_id", projectID, "grantee_id", granteeID)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
