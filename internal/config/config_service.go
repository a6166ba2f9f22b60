package config

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"transitcatalog.org/internal/models"
)

// ConfigService holds dependencies and provides config operations.
type ConfigService struct {
	Logger *slog.Logger
	Client *http.Client
	Config *Config
}

// NewConfigService creates a new ConfigService instance with the provided logger and HTTP client.
func NewConfigService(logger *slog.Logger, client *http.Client, config *Config) *ConfigService {
	return &ConfigService{
		Logger: logger,
		Client: client,
		Config: config,
	}
}

// LoadDocument reads the input document from the configured JSON source, or from stdin
// when neither --input-file nor --input-url is set.
func (cs *ConfigService) LoadDocument(ctx context.Context, stdin io.Reader) (*models.Document, error) {
	switch {
	case cs.Config.InputFile != "":
		cs.Logger.Info("Loading input document", "file", cs.Config.InputFile)
		return LoadDocumentFromFile(cs.Config.InputFile)
	case cs.Config.InputURL != "":
		cs.Logger.Info("Loading input document", "url", cs.Config.InputURL)
		return LoadDocumentFromURL(ctx, cs.Client, cs.Config.InputURL, cs.Config.MaxRetries, cs.Config.CacheDir, cs.Logger)
	default:
		cs.Logger.Info("Reading input document from stdin")
		return LoadDocumentFromReader(stdin)
	}
}
