package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gribpie/gribpie/internal/ctxkeys"
	"github.com/gribpie/gribpie/internal/flash"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/service"
)

type projectHandler struct {
	projectService *service.ProjectService
	userService    *service.UserService
}

func NewProjectHandler(projectService *service.ProjectService, userService *service.UserService) *projectHandler {
	return &projectHandler{
		projectService: projectService,
		userService:    userService,
	}
}

type projectJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StorageUsed int64     `json:"storage_used"`
	CreatedAt   time.Time `json:"created_at"`
}

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func toProjectJSON(p *model.Project) projectJSON {
	return projectJSON{
		ID:          p.ID,
		Name:        p.Name,
		StorageUsed: p.StorageUsed,
		CreatedAt:   p.CreatedAt,
	}
}

// Dashboard lists the caller's own projects, projects shared with them and
// the other users available for granting access.
func (h *projectHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	owned, err := h.projectService.Owned(user.ID)
	if err != nil {
		slog.Error("failed to list projects", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	shared, err := h.projectService.SharedWith(user.ID)
	if err != nil {
		slog.Error("failed to list shared projects", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	users, err := h.userService.AllExcept(user.ID)
	if err != nil {
		slog.Error("failed to list users", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	ownedJSON := make([]projectJSON, 0, len(owned))
	for _, p := range owned {
		ownedJSON = append(ownedJSON, toProjectJSON(p))
	}

	type sharedJSON struct {
		Project     projectJSON `json:"project"`
		AccessLevel string      `json:"access_level"`
	}
	sharedOut := make([]sharedJSON, 0, len(shared))
	for _, p := range shared {
		sharedOut = append(sharedOut, sharedJSON{
			Project:     toProjectJSON(&p.Project),
			AccessLevel: p.AccessLevel,
		})
	}

	usersOut := make([]userJSON, 0, len(users))
	for _, u := range users {
		usersOut = append(usersOut, userJSON{ID: u.ID, Username: u.Username})
	}

	body := map[string]any{
		"personal_projects": ownedJSON,
		"shared_projects":   sharedOut,
		"all_users":         usersOut,
	}

	if msg, ok := flash.Pop(w, r); ok {
		body["flash"] = msg
	}

	respondJSON(w, http.StatusOK, body)
}

// AllFiles is the flat listing of every file the caller can reach.
func (h *projectHandler) AllFiles(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.projectService.AllFiles(user.ID)
	if err != nil {
		slog.Error("failed to list files", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load files")
		return
	}

	if files == nil {
		files = []*service.ProjectFile{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (h *projectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	name := r.FormValue("name")

	_, err := h.projectService.Create(user.ID, name)
	if err != nil {
		redirectFlash(w, r, flash.CategoryDanger, err.Error(), "/dashboard")
		return
	}

	slog.Info("project created", "user_id", user.ID, "name", name)
	redirectFlash(w, r, flash.CategorySuccess, "Project created successfully!", "/dashboard")
}

func (h *projectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")

	err := h.projectService.Delete(projectID, user.ID)
	if err != nil {
		slog.Warn("project delete failed", "error", err, "project_id", projectID, "user_id", user.ID)

		msg := "Failed to delete project"
		if errorStatus(err) == http.StatusForbidden {
			msg = "You do not have permission to delete this project"
		} else if errorStatus(err) == http.StatusNotFound {
			msg = "Project not found"
		}

		redirectFlash(w, r, flash.CategoryDanger, msg, "/dashboard")
		return
	}

	slog.Info("project deleted", "project_id", projectID, "user_id", user.ID)
	redirectFlash(w, r, flash.CategorySuccess, "Project deleted successfully!", "/dashboard")
}

// AllUsers lists every other user, for the access-grant picker.
func (h *projectHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	users, err := h.userService.AllExcept(user.ID)
	if err != nil {
		slog.Error("failed to list users", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON{ID: u.ID, Username: u.Username})
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": out})
}
