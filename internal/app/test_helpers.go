package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"transitcatalog.org/internal/config"
)

const exampleInput = "../../testdata/example_input.json"

// newTestApplication returns an Application with the example network loaded.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.NewConfig(4000, "testing")
	cfg.InputFile = exampleInput

	app := newUnloadedApplication(t, cfg)
	if _, err := app.LoadCatalog(context.Background(), nil); err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	return app
}

// newUnloadedApplication returns an Application for cfg without loading a catalog.
func newUnloadedApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger, http.DefaultClient, "test-version")
}
