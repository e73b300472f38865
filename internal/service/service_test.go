package service_test

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gribpie/gribpie/internal/db"
	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
	"github.com/gribpie/gribpie/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Small ceilings keep quota tests cheap.
const (
	testMaxFiles = 3
	testMaxBytes = 100
)

type testEnv struct {
	db *sqlx.DB

	users  repository.UserRepository
	store  storage.Storage
	auth   *service.AuthService
	user   *service.UserService
	access *service.AccessService
	files  *service.FileService
	proj   *service.ProjectService
	share  *service.ShareService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	users := repository.NewUserRepository(database)
	projects := repository.NewProjectRepository(database)
	files := repository.NewFileRepository(database)
	links := repository.NewSharedLinkRepository(database)
	grants := repository.NewProjectAccessRepository(database)

	access := service.NewAccessService(grants, projects, users)

	return &testEnv{
		db:     database,
		users:  users,
		store:  store,
		auth:   service.NewAuthService(users, "test-secret", false, time.Hour),
		user:   service.NewUserService(users),
		access: access,
		files:  service.NewFileService(files, projects, access, store, testMaxFiles, testMaxBytes),
		proj:   service.NewProjectService(projects, files, store),
		share:  service.NewShareService(links, projects, files, grants, "http://localhost:8000"),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := e.auth.Register(username, username+"@example.com", "password123")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createProject(t *testing.T, ownerID, name string) *model.Project {
	t.Helper()
	project, err := e.proj.Create(ownerID, name)
	require.NoError(t, err)
	return project
}

func (e *testEnv) upload(t *testing.T, projectID, uploaderID, filename, content string) *model.File {
	t.Helper()
	file, err := e.files.Upload(projectID, uploaderID, filename, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	return file
}

func readAll(t *testing.T, src io.ReadCloser) string {
	t.Helper()
	defer func() { _ = src.Close() }()
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	return string(data)
}
