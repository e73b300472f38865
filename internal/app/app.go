package app

import (
	"fmt"

	"github.com/gribpie/gribpie/internal/config"
	"github.com/gribpie/gribpie/internal/db"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
	"github.com/gribpie/gribpie/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProjectService *service.ProjectService
	FileService    *service.FileService
	AccessService  *service.AccessService
	ShareService   *service.ShareService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	projectRepository := repository.NewProjectRepository(database)
	fileRepository := repository.NewFileRepository(database)
	linkRepository := repository.NewSharedLinkRepository(database)
	accessRepository := repository.NewProjectAccessRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.IsProduction(), cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	accessService := service.NewAccessService(accessRepository, projectRepository, userRepository)
	projectService := service.NewProjectService(projectRepository, fileRepository, fileStorage)
	fileService := service.NewFileService(
		fileRepository,
		projectRepository,
		accessService,
		fileStorage,
		cfg.MaxFilesPerProject,
		cfg.MaxProjectBytes,
	)
	shareService := service.NewShareService(linkRepository, projectRepository, fileRepository, accessRepository, cfg.AppURL)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		ProjectService: projectService,
		FileService:    fileService,
		AccessService:  accessService,
		ShareService:   shareService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
