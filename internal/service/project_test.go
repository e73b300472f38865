package service_test

import (
	"testing"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	project, err := env.proj.Create(alice.ID, "  photos  ")
	require.NoError(t, err)
	assert.Equal(t, "photos", project.Name)
	assert.Equal(t, int64(0), project.StorageUsed)

	_, err = env.proj.Create(alice.ID, "ab")
	assert.Error(t, err)
}

func TestOwnedAndShared(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	mine := env.createProject(t, alice.ID, "photos")
	theirs := env.createProject(t, bob.ID, "music")
	require.NoError(t, env.access.Grant(theirs.ID, bob.ID, "alice", model.AccessLevelEdit))

	owned, err := env.proj.Owned(alice.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, mine.ID, owned[0].ID)

	shared, err := env.proj.SharedWith(alice.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, theirs.ID, shared[0].ID)
	assert.Equal(t, model.AccessLevelEdit, shared[0].AccessLevel)
}

func TestAllFiles(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	mine := env.createProject(t, alice.ID, "photos")
	theirs := env.createProject(t, bob.ID, "music")
	require.NoError(t, env.access.Grant(theirs.ID, bob.ID, "alice", model.AccessLevelView))

	env.upload(t, mine.ID, alice.ID, "mine.txt", "a")
	env.upload(t, theirs.ID, bob.ID, "theirs.txt", "b")

	all, err := env.proj.AllFiles(alice.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]*service.ProjectFile{}
	for _, f := range all {
		byName[f.Filename] = f
	}
	assert.Equal(t, "owner", byName["mine.txt"].AccessLevel)
	assert.Equal(t, "photos", byName["mine.txt"].ProjectName)
	assert.Equal(t, model.AccessLevelView, byName["theirs.txt"].AccessLevel)
}

func TestDeleteProjectCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")
	project := env.createProject(t, alice.ID, "photos")

	file := env.upload(t, project.ID, alice.ID, "a.txt", "hello")
	require.NoError(t, env.access.Grant(project.ID, alice.ID, "bob", model.AccessLevelView))
	link, err := env.share.GetOrCreateLink(project.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, env.proj.Delete(project.ID, alice.ID))

	_, err = env.proj.ByID(project.ID)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)

	_, _, err = env.files.Download(file.ID, alice.ID)
	assert.Error(t, err)

	_, err = env.share.Resolve(link.Token)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	_, err = env.store.Open(file.StoragePath)
	assert.Error(t, err)
}

func TestDeleteProjectOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	project := env.createProject(t, alice.ID, "photos")

	require.NoError(t, env.access.Grant(project.ID, alice.ID, "bob", model.AccessLevelEdit))
	err := env.proj.Delete(project.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = env.proj.Delete("no-such-project", alice.ID)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}
