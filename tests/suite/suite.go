package suite

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"photofolio/internal/app"
	"photofolio/internal/config"
)

const AdminPassword = "test-admin-password"

// Suite поднимает полный стек сервиса поверх локального хранилища и
// файлового листинга, HTTP — через httptest.
type Suite struct {
	*testing.T

	Cfg *config.Config
	Srv *httptest.Server
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	dir := t.TempDir()

	cfg := &config.Config{
		Env: "local",
		Storage: config.StorageConfig{
			Backend: config.StorageLocal,
			MaxSize: 25 << 20,
			Local:   config.LocalConfig{BaseDir: filepath.Join(dir, "uploads")},
		},
		Listing: config.ListingConfig{
			Backend:    config.ListingFile,
			Dir:        filepath.Join(dir, "listings"),
			MaxRetries: 4,
		},
		Admin:    config.AdminConfig{PasswordHash: string(hash)},
		Deploy:   config.DeployConfig{Timeout: 5 * time.Second},
		CacheTTL: time.Minute,
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	application, err := app.New(ctx, log, cfg)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	application.HTTPServer.BuildRouters()

	srv := httptest.NewServer(application.HTTPServer.Echo())
	t.Cleanup(srv.Close)

	return ctx, &Suite{
		T:   t,
		Cfg: cfg,
		Srv: srv,
	}
}
