package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"transitcatalog.org/internal/catalog"
	"transitcatalog.org/internal/config"
	"transitcatalog.org/internal/gtfs"
	"transitcatalog.org/internal/metrics"
	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/render"
	"transitcatalog.org/internal/report"
	"transitcatalog.org/internal/requests"
	"transitcatalog.org/internal/utils"
)

// Application holds the configuration service, metrics service, the loaded catalog and
// the request processor answering queries from it.
type Application struct {
	ConfigService  *config.ConfigService
	MetricsService *metrics.MetricsService
	Logger         *slog.Logger
	Version        string

	mu        sync.RWMutex
	catalog   *catalog.Catalog
	processor *requests.Processor
}

// New creates and wires all dependencies for the Application.
// Accepts config, logger, client, and version as arguments.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) *Application {
	return &Application{
		ConfigService:  config.NewConfigService(logger, client, cfg),
		MetricsService: metrics.NewMetricsService(logger),
		Logger:         logger,
		Version:        version,
	}
}

// LoadCatalog builds the catalog from the configured source and returns the statistics
// requests of the input document, if any. Construction failures are fatal to the caller
// and reported to Sentry.
func (app *Application) LoadCatalog(ctx context.Context, stdin io.Reader) ([]json.RawMessage, error) {
	cfg := app.ConfigService.Config

	var (
		c     *catalog.Catalog
		stats []json.RawMessage
		err   error
	)
	if cfg.IsGTFS() {
		c, err = app.loadGTFSCatalog(ctx)
	} else {
		var doc *models.Document
		doc, err = app.ConfigService.LoadDocument(ctx, stdin)
		if err == nil {
			c, err = catalog.FromDocument(doc)
			stats = doc.StatRequests
		}
	}
	if err != nil {
		err = fmt.Errorf("failed to build catalog: %w", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("source", sourceName(cfg)),
		})
		return nil, err
	}

	app.setCatalog(c)
	app.MetricsService.ObserveCatalog(c)
	return stats, nil
}

func (app *Application) loadGTFSCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg := app.ConfigService.Config

	var (
		network *models.Network
		err     error
	)
	if cfg.GTFSFile != "" {
		app.Logger.Info("Importing GTFS bundle", "file", cfg.GTFSFile)
		network, err = gtfs.LoadNetworkFromFile(cfg.GTFSFile)
	} else {
		app.Logger.Info("Importing GTFS bundle", "url", cfg.GTFSURL)
		network, err = gtfs.DownloadNetwork(ctx, app.ConfigService.Client, cfg.GTFSURL, cfg.MaxRetries)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Settings.Routing == nil {
		return nil, models.ErrMissingRoutingSettings
	}
	return catalog.NewCatalog(network, *cfg.Settings.Routing, render.DefaultRenderSettings())
}

func sourceName(cfg *config.Config) string {
	switch {
	case cfg.InputFile != "":
		return "input_file"
	case cfg.InputURL != "":
		return "input_url"
	case cfg.GTFSFile != "":
		return "gtfs_file"
	case cfg.GTFSURL != "":
		return "gtfs_url"
	default:
		return "stdin"
	}
}

func (app *Application) setCatalog(c *catalog.Catalog) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.catalog = c
	app.processor = requests.NewProcessor(c, app.MetricsService, app.Logger)
}

// Processor returns the request processor of the loaded catalog, or nil before LoadCatalog.
func (app *Application) Processor() *requests.Processor {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.processor
}

// Catalog returns the loaded catalog, or nil before LoadCatalog.
func (app *Application) Catalog() *catalog.Catalog {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.catalog
}

// AnswerBatch answers statistics requests in order and writes the responses to w as a
// JSON array.
func (app *Application) AnswerBatch(w io.Writer, stats []json.RawMessage) error {
	processor := app.Processor()
	if processor == nil {
		return fmt.Errorf("catalog not loaded")
	}

	responses := processor.ProcessAll(stats)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(responses); err != nil {
		return fmt.Errorf("failed to write responses: %w", err)
	}
	return nil
}
