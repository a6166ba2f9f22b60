//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"transitcatalog.org/internal/catalog"
	"transitcatalog.org/internal/gtfs"
	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/render"
)

// TestImportGTFSFeeds downloads every configured feed, builds a catalog from it and
// routes along the first bus of the network.
func TestImportGTFSFeeds(t *testing.T) {
	if len(integrationFeeds) == 0 {
		t.Skip("No feeds found in config")
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	routing := models.RoutingSettings{BusWaitTime: 5, BusVelocity: 30}

	for _, feed := range integrationFeeds {
		feed := feed
		t.Run(feed.Name, func(t *testing.T) {
			t.Parallel()

			network, err := gtfs.DownloadNetwork(context.Background(), client, feed.GtfsURL, 3)
			if err != nil {
				t.Fatalf("failed to import %s: %v", feed.GtfsURL, err)
			}

			c, err := catalog.NewCatalog(network, routing, render.DefaultRenderSettings())
			if err != nil {
				t.Fatalf("failed to build catalog: %v", err)
			}
			t.Logf("imported %d stops and %d buses", c.StopCount(), c.BusCount())

			if len(network.Buses) == 0 {
				t.Skip("feed has no trips")
			}
			bus := network.Buses[0]
			from, to := bus.Stops[0], bus.Stops[len(bus.Stops)-1]
			if _, ok := c.FindRoute(from, to); !ok {
				t.Errorf("expected a route from %q to %q along bus %q", from, to, bus.Name)
			}
		})
	}
}
