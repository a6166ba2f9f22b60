// Package gtfs imports a bus network from a GTFS static bundle.
package gtfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"

	remoteGtfs "github.com/jamespfennell/gtfs"

	"transitcatalog.org/internal/config"
	"transitcatalog.org/internal/geo"
	"transitcatalog.org/internal/models"
	"transitcatalog.org/internal/report"
	"transitcatalog.org/internal/utils"
)

// ErrEmptyNetwork is returned when a bundle has no trip with at least two located stops.
var ErrEmptyNetwork = errors.New("no routable trips in GTFS bundle")

// ParseNetwork converts a GTFS static bundle into a network description.
//
// Every route becomes one linear bus following the route's longest trip. Stops are the
// located stops those trips visit; the road distance between consecutive stops is the
// rounded geodesic distance.
func ParseNetwork(data []byte) (*models.Network, error) {
	staticData, err := remoteGtfs.ParseStatic(data, remoteGtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GTFS static data: %w", err)
	}
	return networkFromStatic(staticData)
}

func networkFromStatic(staticData *remoteGtfs.Static) (*models.Network, error) {
	longest := make(map[string]*remoteGtfs.ScheduledTrip)
	var routes []*remoteGtfs.Route
	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil {
			continue
		}
		current, seen := longest[trip.Route.Id]
		if !seen {
			routes = append(routes, trip.Route)
		}
		if !seen || len(trip.StopTimes) > len(current.StopTimes) {
			longest[trip.Route.Id] = trip
		}
	}

	stopNames := uniqueStopNames(staticData.Stops)
	stopIndex := make(map[string]int)
	busNames := make(map[string]int)
	network := &models.Network{}

	for _, route := range routes {
		sequence := tripStops(longest[route.Id])
		if len(sequence) < 2 {
			continue
		}

		bus := models.BusDescription{Name: busName(route, busNames)}
		for k, stop := range sequence {
			name := stopNames[stop.Id]
			idx, ok := stopIndex[name]
			if !ok {
				idx = len(network.Stops)
				stopIndex[name] = idx
				network.Stops = append(network.Stops, models.StopDescription{
					Name:          name,
					Latitude:      *stop.Latitude,
					Longitude:     *stop.Longitude,
					RoadDistances: map[string]int{},
				})
			}
			bus.Stops = append(bus.Stops, name)

			if k > 0 {
				prev := sequence[k-1]
				prevDesc := &network.Stops[stopIndex[stopNames[prev.Id]]]
				if _, declared := prevDesc.RoadDistances[name]; !declared {
					prevDesc.RoadDistances[name] = int(math.Round(geo.Distance(
						geo.Point{Latitude: *prev.Latitude, Longitude: *prev.Longitude},
						geo.Point{Latitude: *stop.Latitude, Longitude: *stop.Longitude},
					)))
				}
			}
		}
		network.Buses = append(network.Buses, bus)
	}

	if len(network.Buses) == 0 {
		return nil, ErrEmptyNetwork
	}
	if err := network.Validate(); err != nil {
		return nil, err
	}
	return network, nil
}

// tripStops returns the located stops of a trip in visiting order, without consecutive repeats.
func tripStops(trip *remoteGtfs.ScheduledTrip) []*remoteGtfs.Stop {
	stopTimes := append([]remoteGtfs.ScheduledStopTime(nil), trip.StopTimes...)
	sort.SliceStable(stopTimes, func(i, j int) bool { return stopTimes[i].StopSequence < stopTimes[j].StopSequence })

	var stops []*remoteGtfs.Stop
	for _, st := range stopTimes {
		stop := st.Stop
		if stop == nil || stop.Latitude == nil || stop.Longitude == nil {
			continue
		}
		if !geo.IsValidLatLon(*stop.Latitude, *stop.Longitude) {
			continue
		}
		if len(stops) > 0 && stops[len(stops)-1].Id == stop.Id {
			continue
		}
		stops = append(stops, stop)
	}
	return stops
}

// uniqueStopNames names stops by their GTFS name, qualifying names shared by several
// stops with the stop id.
func uniqueStopNames(stops []remoteGtfs.Stop) map[string]string {
	count := make(map[string]int, len(stops))
	for _, stop := range stops {
		count[stop.Name]++
	}
	names := make(map[string]string, len(stops))
	for _, stop := range stops {
		name := stop.Name
		if name == "" {
			name = stop.Id
		} else if count[name] > 1 {
			name = fmt.Sprintf("%s [%s]", stop.Name, stop.Id)
		}
		names[stop.Id] = name
	}
	return names
}

func busName(route *remoteGtfs.Route, used map[string]int) string {
	name := route.ShortName
	if name == "" {
		name = route.Id
	}
	used[name]++
	if used[name] > 1 {
		name = fmt.Sprintf("%s [%s]", name, route.Id)
	}
	return name
}

// LoadNetworkFromFile reads a GTFS static bundle from disk.
func LoadNetworkFromFile(path string) (*models.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GTFS bundle %s: %w", path, err)
	}
	return ParseNetwork(data)
}

// DownloadNetwork fetches a GTFS static bundle, retrying transient failures, and imports it.
func DownloadNetwork(ctx context.Context, client *http.Client, url string, maxRetries int) (*models.Network, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := config.DoWithBackoff(ctx, client, req, maxRetries)
	if err != nil {
		err = fmt.Errorf("failed to make GET request to %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("source", "gtfs"),
			ExtraContext: map[string]interface{}{
				"url": url,
			},
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected response status %d when downloading GTFS bundle from %s", resp.StatusCode, url)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.MakeMap("source", "gtfs"),
			ExtraContext: map[string]interface{}{
				"url":    url,
				"status": resp.Status,
			},
		})
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GTFS bundle response body from %s: %w", url, err)
	}
	return ParseNetwork(data)
}
