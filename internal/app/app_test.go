package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWiresSQLiteApp(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("SYNC_SECRET", "secret")
	t.Setenv("CONTENT_CACHE_BACKEND", "memory")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background())
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/summaries?lang=en", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"posts":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/affiliate-links", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRejectsUnknownCacheBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("CONTENT_CACHE_BACKEND", "memcached")

	_, err := New(context.Background())
	assert.Error(t, err)
}

func TestNewLoggerReadsLogModeFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_MODE=production\n"), 0o600))
	chdir(t, dir)
	t.Setenv("LOG_MODE", "")
	require.NoError(t, os.Unsetenv("LOG_MODE"))

	log, err := newLogger()
	require.NoError(t, err)
	core := log.SugaredLogger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.DebugLevel))
	assert.True(t, core.Enabled(zapcore.InfoLevel))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
