package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gribpie/gribpie/internal/ctxkeys"
	"github.com/gribpie/gribpie/internal/flash"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

func (h *authHandler) Home(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.User(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage and RegisterPage return the page state for the auth forms,
// including any flash left by a failed POST.
func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"page": "login"}
	if msg, ok := flash.Pop(w, r); ok {
		body["flash"] = msg
	}
	respondJSON(w, http.StatusOK, body)
}

func (h *authHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"page": "register"}
	if msg, ok := flash.Pop(w, r); ok {
		body["flash"] = msg
	}
	respondJSON(w, http.StatusOK, body)
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	_, err := h.authService.Register(username, email, password)
	if err != nil {
		msg := "Registration failed"
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			msg = "Username already exists"
		case errors.Is(err, repository.ErrDuplicateEmail):
			msg = "Email is already registered"
		default:
			// Validation errors carry a user-facing message
			msg = err.Error()
		}

		slog.Warn("registration failed", "error", err, "username", username)
		redirectFlash(w, r, flash.CategoryDanger, msg, "/register")
		return
	}

	slog.Info("user registered", "username", username)
	redirectFlash(w, r, flash.CategorySuccess, "Registration successful! Please log in.", "/login")
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.authService.Login(username, password)
	if err != nil {
		slog.Warn("login failed", "username", username)
		redirectFlash(w, r, flash.CategoryDanger, "Invalid credentials", "/login")
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		redirectFlash(w, r, flash.CategoryDanger, "An error occurred. Please try again.", "/login")
		return
	}

	h.authService.SetJWTCookie(w, token)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
