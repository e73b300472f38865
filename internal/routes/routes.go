package routes

import (
	"net/http"

	"github.com/gribpie/gribpie/internal/app"
	"github.com/gribpie/gribpie/internal/handler"
	"github.com/gribpie/gribpie/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	project := handler.NewProjectHandler(app.ProjectService, app.UserService)
	file := handler.NewFileHandler(app.FileService)
	share := handler.NewShareHandler(app.ShareService)
	access := handler.NewAccessHandler(app.AccessService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", auth.Home)

	// Auth flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /register", rateLimiter(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /logout", auth.Logout)

	// Shared links need no session, the token is the credential
	mux.HandleFunc("GET /share/{token}", share.Share)
	mux.HandleFunc("GET /generate_qr/{token}", share.GenerateQR)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(project.Dashboard))
	mux.HandleFunc("GET /all-files", middleware.RequireAuth(project.AllFiles))
	mux.HandleFunc("GET /get_all_users", middleware.RequireAuth(project.AllUsers))

	// Projects
	mux.HandleFunc("POST /create_project", middleware.RequireAuth(project.Create))
	mux.HandleFunc("GET /delete_project/{projectID}", middleware.RequireAuth(project.Delete))

	// Files
	uploadLimit := middleware.MaxBytes(app.Cfg.MaxUploadBytes)
	mux.Handle("POST /upload/{projectID}", uploadLimit(middleware.RequireAuth(file.Upload)))
	mux.HandleFunc("GET /download/{fileID}", middleware.RequireAuth(file.Download))
	mux.HandleFunc("GET /delete/{fileID}", middleware.RequireAuth(file.Delete))

	// Sharing
	mux.HandleFunc("GET /get_share_link/{projectID}", middleware.RequireAuth(share.GetShareLink))

	// Access control
	mux.HandleFunc("GET /project/{projectID}/users", middleware.RequireAuth(access.ProjectUsers))
	mux.HandleFunc("POST /project/{projectID}/grant-access", middleware.RequireAuth(access.GrantAccess))
	mux.HandleFunc("POST /project/{projectID}/revoke-access/{userID}", middleware.RequireAuth(access.RevokeAccess))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
