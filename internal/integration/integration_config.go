//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"os"
)

// Feed is a public GTFS static feed the integration tests import.
type Feed struct {
	Name    string `json:"name"`
	GtfsURL string `json:"gtfs_url"`
}

// loadIntegrationFeeds loads the feed list from a JSON file.
func loadIntegrationFeeds(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var feeds []Feed
	if err := json.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return feeds, nil
}
