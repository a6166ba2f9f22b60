package gtfs

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
)

// testBundleFiles is a small GTFS static bundle: route 10 runs Central, Market, Harbor on
// its longest trip; the unnamed route R2 runs Harbor to a second stop called Market.
var testBundleFiles = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
A1,Test Transit,https://example.com,America/Los_Angeles
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_long_name,route_type
R1,A1,10,Ten Line,3
R2,A1,,Harbor Shuttle,3
`,
	"stops.txt": `stop_id,stop_name,stop_lat,stop_lon
S1,Central,47.6000,-122.3300
S2,Market,47.6100,-122.3400
S3,Harbor,47.6200,-122.3500
S4,Market,47.6300,-122.3600
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WK,1,1,1,1,1,0,0,20240101,20301231
`,
	"trips.txt": `route_id,service_id,trip_id
R1,WK,T1
R1,WK,T2
R2,WK,T3
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
T1,08:00:00,08:00:00,S1,1
T1,08:05:00,08:05:00,S2,2
T1,08:10:00,08:10:00,S3,3
T2,09:00:00,09:00:00,S1,1
T2,09:05:00,09:05:00,S2,2
T3,10:00:00,10:00:00,S3,1
T3,10:10:00,10:10:00,S4,2
`,
}

// buildBundle zips the given files into an in-memory GTFS bundle.
func buildBundle(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to bundle: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close bundle: %v", err)
	}
	return buf.Bytes()
}

// setupGtfsServer serves data with the given status code.
func setupGtfsServer(t *testing.T, data []byte, statusCode int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.WriteHeader(statusCode)
		w.Write(data)
	}))
}
