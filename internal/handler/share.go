package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/gribpie/gribpie/internal/ctxkeys"
	"github.com/gribpie/gribpie/internal/service"
)

type shareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *shareHandler {
	return &shareHandler{shareService: shareService}
}

type sharedFileJSON struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Share resolves a public token. No authentication: the token is the whole
// credential, and the response includes the grantee list by design.
func (h *shareHandler) Share(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	view, err := h.shareService.Resolve(token)
	if err != nil {
		respondError(w, http.StatusNotFound, "Shared link not found")
		return
	}

	files := make([]sharedFileJSON, 0, len(view.Files))
	for _, f := range view.Files {
		files = append(files, sharedFileJSON{
			ID:        f.ID,
			Filename:  f.Filename,
			Size:      f.Size,
			CreatedAt: f.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"project": map[string]any{
			"id":           view.Project.ID,
			"name":         view.Project.Name,
			"storage_used": view.Project.StorageUsed,
		},
		"files":             files,
		"users_with_access": view.Grantees,
		"token":             token,
	})
}

// GenerateQR renders a token's share URL as a base64 PNG. Public and pure:
// it does not check that the token exists.
func (h *shareHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	png, err := h.shareService.QRCode(token)
	if err != nil {
		slog.Error("failed to render QR code", "error", err, "token", token)
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"qr_data": "image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"url":     h.shareService.ShareURL(token),
	})
}

// GetShareLink returns the project's share link, minting it on first call.
// Owner-only, idempotent.
func (h *shareHandler) GetShareLink(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectID")

	link, err := h.shareService.GetOrCreateLink(projectID, user.ID)
	if err != nil {
		slog.Warn("share link request failed", "error", err, "project_id", projectID, "user_id", user.ID)

		status := errorStatus(err)
		msg := "Failed to create share link"
		if status == http.StatusForbidden {
			msg = "Access denied"
		} else if status == http.StatusNotFound {
			msg = "Project not found"
		}

		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url":   h.shareService.ShareURL(link.Token),
		"token": link.Token,
	})
}
