package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/sdk"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T, token string) (*Server, string) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "photos", "a.jpg"), "jpeg")
	writeFile(t, filepath.Join(root, "photos", "2024", "b.jpg"), "jpeg-b")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "backup"), 0o755))

	srv, err := NewWithFs(&Config{RootDir: root, AuthToken: token}, afero.NewOsFs())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Stop(context.Background())
	})
	return srv, root
}

func newTestClient(t *testing.T, srv *Server, token string) *sdk.Client {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := sdk.New(&sdk.Config{BaseURL: ts.URL, Token: token})
	require.NoError(t, err)
	return client
}

func TestServer_SecondInstanceLocked(t *testing.T) {
	srv, root := newTestServer(t, "")
	_, err := NewWithFs(&Config{RootDir: root, DBPath: srv.config.DBPath}, afero.NewOsFs())
	assert.ErrorIs(t, err, ErrServerLocked)
}

func TestRoutes_HealthAndIndex(t *testing.T) {
	srv, _ := newTestServer(t, "")
	client := newTestClient(t, srv, "")

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FileManager")
}

func TestRoutes_ListRoot(t *testing.T) {
	srv, _ := newTestServer(t, "")
	client := newTestClient(t, srv, "")

	entries, err := client.List(context.Background(), "")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
		assert.True(t, e.IsDirectory)
	}
	assert.ElementsMatch(t, []string{"backup", "photos"}, names)

	_, err = client.List(context.Background(), "missing")
	assert.ErrorIs(t, err, fsapi.ErrNotFound)

	_, err = client.List(context.Background(), "../etc")
	require.Error(t, err)
	var se *fsapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, fsapi.CodeInvalidPath, se.Code)
}

func TestRoutes_SyncConflictThenForce(t *testing.T) {
	srv, root := newTestServer(t, "")
	client := newTestClient(t, srv, "")
	ctx := context.Background()

	req := fsapi.SyncRequest{Source: "photos", Destination: "backup"}

	_, err := client.Sync(ctx, req)
	require.Error(t, err)
	assert.True(t, fsapi.IsConflict(err))
	assert.NoFileExists(t, filepath.Join(root, "backup", "a.jpg"))

	req.Force = true
	report, err := client.Sync(ctx, req)
	require.NoError(t, err)
	assert.True(t, report.PairCreated)
	assert.Equal(t, fsapi.JobCompleted, report.Job.Status)
	assert.ElementsMatch(t, []string{"a.jpg", "2024/b.jpg"}, report.Copied)
	assert.FileExists(t, filepath.Join(root, "backup", "2024", "b.jpg"))

	// linked pair: no conflict, nothing left to copy
	req.Force = false
	report, err = client.Sync(ctx, req)
	require.NoError(t, err)
	assert.False(t, report.PairCreated)
	assert.Empty(t, report.Copied)

	pairs, err := client.Pairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	jobs, err := client.Jobs(ctx, pairs[0].ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestRoutes_SyncBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, "")
	client := newTestClient(t, srv, "")

	_, err := client.Sync(context.Background(), fsapi.SyncRequest{Source: "photos"})
	var se *fsapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, fsapi.CodeInvalidRequest, se.Code)

	_, err = client.Sync(context.Background(), fsapi.SyncRequest{Source: "photos", Destination: "photos", Force: true})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, fsapi.CodeInvalidPath, se.Code)
}

func TestRoutes_TokenRequired(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")

	anon := newTestClient(t, srv, "")
	_, err := anon.List(context.Background(), "")
	var se *fsapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, fsapi.CodeAccessDenied, se.Code)

	// health stays public
	_, err = anon.Health(context.Background())
	assert.NoError(t, err)

	authed := newTestClient(t, srv, "s3cret")
	_, err = authed.List(context.Background(), "")
	assert.NoError(t, err)
}

func TestRoutes_NotFoundEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"E_INVALID_REQUEST"`)
}

func TestRoutes_Browse(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/browse/photos", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a.jpg")
	assert.Contains(t, w.Body.String(), "2024")
}
