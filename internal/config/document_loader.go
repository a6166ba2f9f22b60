package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/getsentry/sentry-go"

	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/report"
	"transitcatalog.org/internal/utils"
)

// LoadDocumentFromReader decodes an input document, typically from stdin.
func LoadDocumentFromReader(r io.Reader) (*models.Document, error) {
	return models.DecodeDocument(r)
}

// LoadDocumentFromFile reads an input document from disk.
func LoadDocumentFromFile(filePath string) (*models.Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return models.DecodeDocument(f)
}

// LoadDocumentFromURL downloads an input document with retries.
//
// When cacheDir is set, every successful download is kept there, and a failed download
// falls back to the most recent cached copy of the same URL.
func LoadDocumentFromURL(ctx context.Context, client *http.Client, url string, maxRetries int, cacheDir string, logger *slog.Logger) (*models.Document, error) {
	prefix := utils.CacheFilePrefix("document", url)

	data, err := fetch(ctx, client, url, "", "", maxRetries)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("input_url", url),
			Level: sentry.LevelError,
		})
		if cacheDir == "" {
			return nil, err
		}

		cached, cacheErr := utils.GetLastCachedFile(cacheDir, prefix)
		if cacheErr != nil {
			return nil, fmt.Errorf("%w (no cached copy: %v)", err, cacheErr)
		}
		logger.Warn("Falling back to cached input document", "url", url, "cache_file", cached, "error", err)
		return LoadDocumentFromFile(cached)
	}

	doc, err := models.DecodeDocument(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if cacheDir != "" {
		if err := utils.CreateCacheDirectory(cacheDir, logger); err != nil {
			logger.Warn("Failed to create cache directory", "cache_dir", cacheDir, "error", err)
		} else if path, err := utils.WriteCacheFile(cacheDir, prefix, data); err != nil {
			logger.Warn("Failed to cache input document", "error", err)
		} else {
			logger.Debug("Cached input document", "cache_file", path)
		}
	}
	return doc, nil
}
