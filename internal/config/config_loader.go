package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/getsentry/sentry-go"
	"gopkg.in/yaml.v3"

	"transitcatalog.org/internal/report"
	"transitcatalog.org/internal/utils"
)

// ValidateConfigFlags ensures that at most one input document source is specified:
// "--input-file", "--input-url", "--gtfs-file" or "--gtfs-url". With none, the document
// is read from stdin.
//
// A GTFS source carries no routing settings, so it also requires a settings file that
// provides them.
func ValidateConfigFlags(cfg *Config, args []string) error {
	sources := 0
	for _, source := range []string{cfg.InputFile, cfg.InputURL, cfg.GTFSFile, cfg.GTFSURL} {
		if source != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("only one of --input-file, --input-url, --gtfs-file or --gtfs-url can be specified")
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if cfg.IsGTFS() && cfg.Settings.Routing == nil {
		return fmt.Errorf("a GTFS source requires routing_settings in the --config-file settings")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("--max-retries must not be negative")
	}
	return nil
}

// LoadSettingsFromFile reads a YAML settings file from disk.
//
// On error, it reports issues to Sentry and returns a descriptive error.
func LoadSettingsFromFile(filePath string) (Settings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	settings, err := parseSettings(data)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return Settings{}, err
	}
	return settings, nil
}

// LoadSettingsFromURL fetches a YAML settings file from a remote HTTP(S) endpoint,
// using the provided client and optional basic authentication.
func LoadSettingsFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string, maxRetries int) (Settings, error) {
	data, err := fetch(ctx, client, url, authUser, authPass, maxRetries)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return Settings{}, err
	}

	settings, err := parseSettings(data)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return Settings{}, err
	}
	return settings, nil
}

// parseSettings decodes YAML settings over the defaults and validates them.
func parseSettings(data []byte) (Settings, error) {
	settings := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && err != io.EOF {
		return Settings{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// fetch downloads a remote resource with retries and returns its body.
func fetch(ctx context.Context, client *http.Client, url, authUser, authPass string, maxRetries int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if authUser != "" && authPass != "" {
		req.SetBasicAuth(authUser, authPass)
	}

	resp, err := DoWithBackoff(ctx, client, req, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status: %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
