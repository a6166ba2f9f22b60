package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"transitcatalog.org/internal/app"
	"transitcatalog.org/internal/config"
	"transitcatalog.org/internal/report"
	"transitcatalog.org/internal/utils"
)

const version = "1.0.0"

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.NewConfig(0, "development")

	flag.IntVar(&cfg.Port, "port", 0, "API server port; 0 answers the stat_requests of the input document and exits")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.StringVar(&cfg.InputFile, "input-file", "", "Path to a JSON input document")
	flag.StringVar(&cfg.InputURL, "input-url", "", "URL to a JSON input document")
	flag.StringVar(&cfg.GTFSFile, "gtfs-file", "", "Path to a GTFS static bundle")
	flag.StringVar(&cfg.GTFSURL, "gtfs-url", "", "URL to a GTFS static bundle")
	flag.IntVar(&cfg.MaxRetries, "max-retries", 3, "Retries for remote sources; 0 retries until interrupted")
	flag.StringVar(&cfg.CacheDir, "cache-dir", "cache", "Directory for downloaded input documents")

	var (
		configFile = flag.String("config-file", "", "Path to a local YAML settings file")
		configURL  = flag.String("config-url", "", "URL to a remote YAML settings file")
	)

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	if err := report.SetupSentry(cfg.Env, version); err != nil {
		logger.Error("Failed to initialize Sentry", "error", err)
	}
	defer report.FlushSentry()
	report.ConfigureScope(cfg.Env, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := app.NewPooledClient()

	if *configFile != "" && *configURL != "" {
		fail(logger, fmt.Errorf("only one of --config-file or --config-url can be specified"), true)
	}
	if *configFile != "" || *configURL != "" {
		var (
			settings config.Settings
			err      error
		)
		if *configFile != "" {
			settings, err = config.LoadSettingsFromFile(*configFile)
		} else {
			settings, err = config.LoadSettingsFromURL(ctx, client, *configURL,
				os.Getenv("CONFIG_AUTH_USER"), os.Getenv("CONFIG_AUTH_PASS"), cfg.MaxRetries)
		}
		if err != nil {
			fail(logger, fmt.Errorf("error loading settings: %w", err), false)
		}
		cfg.Settings = settings
	}

	if err := config.ValidateConfigFlags(cfg, flag.Args()); err != nil {
		fail(logger, err, true)
	}

	application := app.New(cfg, logger, client, version)

	stats, err := application.LoadCatalog(ctx, os.Stdin)
	if err != nil {
		fail(logger, err, false)
	}

	if cfg.Port == 0 {
		if err := application.AnswerBatch(os.Stdout, stats); err != nil {
			report.ReportError(err, sentry.LevelError)
			fail(logger, err, false)
		}
		return
	}

	if err := application.Serve(ctx); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelFatal,
			Tags:  utils.MakeMap("port", fmt.Sprintf("%d", cfg.Port)),
		})
		fail(logger, err, false)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fail logs err, flushes Sentry and exits with status 1.
func fail(logger *slog.Logger, err error, usage bool) {
	logger.Error(err.Error())
	if usage {
		flag.Usage()
	}
	report.FlushSentry()
	os.Exit(1)
}
