package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gribpie/gribpie/internal/flash"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
)

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes a JSON error body: {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// redirectFlash sets a one-shot message and redirects, the browser-flow
// counterpart of respondError.
func redirectFlash(w http.ResponseWriter, r *http.Request, category, text, target string) {
	flash.Set(w, category, text)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// backOr returns the referring page, or fallback when the request has none.
func backOr(r *http.Request, fallback string) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	return fallback
}

// errorStatus maps the service error taxonomy onto HTTP status codes for
// JSON responses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrProjectNotFound),
		errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrLinkNotFound),
		errors.Is(err, repository.ErrNotGranted):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyGranted),
		errors.Is(err, repository.ErrQuotaExceeded),
		errors.Is(err, repository.ErrFileCountExceeded),
		errors.Is(err, service.ErrInvalidAccessLevel),
		errors.Is(err, service.ErrInvalidGrantee),
		errors.Is(err, service.ErrEmptyFilename):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
