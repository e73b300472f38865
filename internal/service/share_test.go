package service_test

import (
	"testing"

	"github.com/gribpie/gribpie/internal/model"
	"github.com/gribpie/gribpie/internal/repository"
	"github.com/gribpie/gribpie/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateLinkIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	project := env.createProject(t, alice.ID, "photos")

	first, err := env.share.GetOrCreateLink(project.ID, alice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)

	second, err := env.share.GetOrCreateLink(project.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestGetOrCreateLinkOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	project := env.createProject(t, alice.ID, "photos")

	// Even edit access does not allow minting links
	require.NoError(t, env.access.Grant(project.ID, alice.ID, "bob", model.AccessLevelEdit))
	_, err := env.share.GetOrCreateLink(project.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = env.share.GetOrCreateLink("no-such-project", alice.ID)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")
	project := env.createProject(t, alice.ID, "photos")
	env.upload(t, project.ID, alice.ID, "a.txt", "hello")
	require.NoError(t, env.access.Grant(project.ID, alice.ID, "bob", model.AccessLevelView))

	link, err := env.share.GetOrCreateLink(project.ID, alice.ID)
	require.NoError(t, err)

	view, err := env.share.Resolve(link.Token)
	require.NoError(t, err)
	assert.Equal(t, project.ID, view.Project.ID)
	require.Len(t, view.Files, 1)
	assert.Equal(t, "a.txt", view.Files[0].Filename)
	require.Len(t, view.Grantees, 1)
	assert.Equal(t, "bob", view.Grantees[0].Username)

	_, err = env.share.Resolve("no-such-token")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestResolveAfterProjectDelete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	project := env.createProject(t, alice.ID, "photos")

	link, err := env.share.GetOrCreateLink(project.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, env.proj.Delete(project.ID, alice.ID))

	// The link row cascades away with the project
	_, err = env.share.Resolve(link.Token)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestShareURLAndQRCode(t *testing.T) {
	env := newTestEnv(t)

	url := env.share.ShareURL("some-token")
	assert.Equal(t, "http://localhost:8000/share/some-token", url)

	png, err := env.share.QRCode("some-token")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	// Same token, same image
	again, err := env.share.QRCode("some-token")
	require.NoError(t, err)
	assert.Equal(t, png, again)
}
