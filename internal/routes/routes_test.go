package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gribpie/gribpie/internal/app"
	"github.com/gribpie/gribpie/internal/config"
	"github.com/gribpie/gribpie/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		AppName:            "GribPie",
		AppEnv:             "test",
		AppURL:             "http://localhost:8000",
		Port:               "8000",
		DBDriver:           "sqlite",
		DBConnection:       filepath.Join(dir, "test.db") + "?_pragma=foreign_keys(1)",
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		StorageDriver:      "local",
		UploadDir:          filepath.Join(dir, "uploads"),
		MaxFilesPerProject: 50,
		MaxProjectBytes:    250 << 20,
		MaxUploadBytes:     1 << 20,
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns an HTTP client with its own cookie jar, one per user.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func signUp(t *testing.T, client *http.Client, base, username string) {
	t.Helper()

	resp := postForm(t, client, base+"/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"password123"},
	})
	body := decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	flash, ok := body["flash"].(map[string]any)
	require.True(t, ok, "register should leave a flash message")
	assert.Equal(t, "Registration successful! Please log in.", flash["text"])

	resp = postForm(t, client, base+"/login", url.Values{
		"username": {username},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/dashboard"))
	_ = resp.Body.Close()
}

func createProject(t *testing.T, client *http.Client, base, name string) string {
	t.Helper()

	resp := postForm(t, client, base+"/create_project", url.Values{"name": {name}})
	body := decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	projects, ok := body["personal_projects"].([]any)
	require.True(t, ok)
	for _, p := range projects {
		project := p.(map[string]any)
		if project["name"] == name {
			return project["id"].(string)
		}
	}
	t.Fatalf("project %q not in dashboard after create", name)
	return ""
}

func uploadFile(t *testing.T, client *http.Client, base, projectID, filename, content string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, base+"/upload/"+projectID, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/", "/dashboard", "/all-files"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, "/login", resp.Request.URL.Path, path)
		_ = resp.Body.Close()
	}
}

func TestRegisterLoginUploadDownload(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signUp(t, client, srv.URL, "alice")
	projectID := createProject(t, client, srv.URL, "photos")

	resp := uploadFile(t, client, srv.URL, projectID, "hello.txt", "hello world")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Find the file in the flat listing
	resp, err := client.Get(srv.URL + "/all-files")
	require.NoError(t, err)
	body := decodeJSON(t, resp)
	files := body["files"].([]any)
	require.Len(t, files, 1)
	file := files[0].(map[string]any)
	assert.Equal(t, "hello.txt", file["filename"])
	assert.Equal(t, "owner", file["access_level"])

	resp, err = client.Get(srv.URL + "/download/" + file["id"].(string))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "hello.txt")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestUploadBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signUp(t, client, srv.URL, "alice")
	projectID := createProject(t, client, srv.URL, "photos")

	// Over the transport ceiling of 1 MiB
	resp := uploadFile(t, client, srv.URL, projectID, "big.bin", strings.Repeat("x", 2<<20))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Contains(t, body["error"], "too large")
}

func TestShareLinkFlow(t *testing.T) {
	srv := newTestServer(t)
	owner := newClient(t)

	signUp(t, owner, srv.URL, "alice")
	projectID := createProject(t, owner, srv.URL, "photos")

	resp := uploadFile(t, owner, srv.URL, projectID, "pic.png", "pngbytes")
	_ = resp.Body.Close()

	resp, err := owner.Get(srv.URL + "/get_share_link/" + projectID)
	require.NoError(t, err)
	body := decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)
	assert.Contains(t, body["url"], "/share/"+token)

	// The share page needs no session at all
	anon := newClient(t)
	resp, err = anon.Get(srv.URL + "/share/" + token)
	require.NoError(t, err)
	body = decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	project := body["project"].(map[string]any)
	assert.Equal(t, "photos", project["name"])
	files := body["files"].([]any)
	require.Len(t, files, 1)

	resp, err = anon.Get(srv.URL + "/generate_qr/" + token)
	require.NoError(t, err)
	body = decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["qr_data"].(string), "image/png;base64,"))

	resp, err = anon.Get(srv.URL + "/share/no-such-token")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGrantAndRevokeAccess(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	signUp(t, alice, srv.URL, "alice")
	signUp(t, bob, srv.URL, "bob")
	projectID := createProject(t, alice, srv.URL, "photos")

	resp := uploadFile(t, alice, srv.URL, projectID, "a.txt", "shared content")
	_ = resp.Body.Close()

	resp, err := alice.Get(srv.URL + "/all-files")
	require.NoError(t, err)
	fileID := decodeJSON(t, resp)["files"].([]any)[0].(map[string]any)["id"].(string)

	// Before the grant, bob cannot reach the file
	resp, err = bob.Get(srv.URL + "/download/" + fileID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	_ = resp.Body.Close()

	resp = postForm(t, alice, srv.URL+"/project/"+projectID+"/grant-access", url.Values{
		"username":     {"bob"},
		"access_level": {"view"},
	})
	body := decodeJSON(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, err = bob.Get(srv.URL + "/download/" + fileID)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "shared content", string(data))

	// Owner sees the grant listed
	resp, err = alice.Get(srv.URL + "/project/" + projectID + "/users")
	require.NoError(t, err)
	users := decodeJSON(t, resp)["users"].([]any)
	require.Len(t, users, 1)
	grantee := users[0].(map[string]any)
	assert.Equal(t, "bob", grantee["username"])
	assert.Equal(t, "view", grantee["access_level"])
	granteeID := grantee["id"].(string)

	resp = postForm(t, alice, srv.URL+"/project/"+projectID+"/revoke-access/"+granteeID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = bob.Get(srv.URL + "/download/" + fileID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	_ = resp.Body.Close()
}

func TestGrantAccessValidation(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	signUp(t, alice, srv.URL, "alice")
	signUp(t, bob, srv.URL, "bob")
	projectID := createProject(t, alice, srv.URL, "photos")

	resp := postForm(t, alice, srv.URL+"/project/"+projectID+"/grant-access", url.Values{
		"username":     {"bob"},
		"access_level": {"admin"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// Non-owners cannot grant
	resp = postForm(t, bob, srv.URL+"/project/"+projectID+"/grant-access", url.Values{
		"username":     {"alice"},
		"access_level": {"view"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signUp(t, client, srv.URL, "alice")

	resp, err := client.Get(srv.URL + "/logout")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	_ = resp.Body.Close()

	resp, err = client.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	_ = resp.Body.Close()
}
