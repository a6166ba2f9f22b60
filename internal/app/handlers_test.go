package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"transitcatalog.org/internal/config"
	"transitcatalog.org/internal/middleware"
	"transitcatalog.org/internal/requests"
)

func TestHealthcheckHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		app := newTestApplication(t)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
		app.healthcheckHandler(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}

		var resp HealthStatus
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "available" {
			t.Errorf("expected status 'available', got %q", resp.Status)
		}
		if resp.Environment != "testing" {
			t.Errorf("expected environment 'testing', got %q", resp.Environment)
		}
		if resp.Version != "test-version" {
			t.Errorf("expected version 'test-version', got %q", resp.Version)
		}
		if !resp.Ready || resp.Stops != 10 || resp.Buses != 4 {
			t.Errorf("unexpected health status: %+v", resp)
		}
	})

	t.Run("not ready", func(t *testing.T) {
		app := newUnloadedApplication(t, config.NewConfig(4000, "testing"))

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
		app.healthcheckHandler(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
		}
	})
}

func TestQueryHandlers(t *testing.T) {
	app := newTestApplication(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := app.Routes(ctx)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "known stop",
			path:       "/v1/stops/" + url.PathEscape("Biryulyovo Zapadnoye"),
			wantStatus: http.StatusOK,
			wantBody:   `"buses":["297","635","828"]`,
		},
		{
			name:       "stop without buses",
			path:       "/v1/stops/Prazhskaya",
			wantStatus: http.StatusOK,
			wantBody:   `"buses":[]`,
		},
		{
			name:       "unknown stop",
			path:       "/v1/stops/Samara",
			wantStatus: http.StatusNotFound,
			wantBody:   `"error_message":"not found"`,
		},
		{
			name:       "known bus",
			path:       "/v1/buses/750",
			wantStatus: http.StatusOK,
			wantBody:   `"route_length":27600`,
		},
		{
			name:       "unknown bus",
			path:       "/v1/buses/751",
			wantStatus: http.StatusNotFound,
			wantBody:   `"error_message":"not found"`,
		},
		{
			name:       "route",
			path:       "/v1/route?from=" + url.QueryEscape("Biryulyovo Zapadnoye") + "&to=Universam",
			wantStatus: http.StatusOK,
			wantBody:   `"bus":"828"`,
		},
		{
			name:       "unreachable route",
			path:       "/v1/route?from=" + url.QueryEscape("Biryulyovo Zapadnoye") + "&to=Prazhskaya",
			wantStatus: http.StatusNotFound,
			wantBody:   `"error_message":"not found"`,
		},
		{
			name:       "route without destination",
			path:       "/v1/route?from=Universam",
			wantStatus: http.StatusBadRequest,
			wantBody:   `from and to are required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %s, got %s", tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestMapHandler(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.mapHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/map", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %q", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "<?xml") || !strings.HasSuffix(body, "</svg>") {
		t.Errorf("expected an SVG document, got %.60q", body)
	}
}

func TestRequestsHandler(t *testing.T) {
	app := newTestApplication(t)

	t.Run("batch", func(t *testing.T) {
		body := `[
			{"id": 1, "type": "Bus", "name": "297"},
			{"id": 2, "type": "Teleport"},
			{"id": 3, "type": "Stop", "name": "Universam"}
		]`
		rr := httptest.NewRecorder()
		app.requestsHandler(rr, httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body)))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var responses []map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&responses); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(responses) != 3 {
			t.Fatalf("expected 3 responses, got %d", len(responses))
		}
		if responses[0]["stop_count"] != float64(4) {
			t.Errorf("expected 4 stops on bus 297, got %v", responses[0]["stop_count"])
		}
		if responses[1]["request_id"] != float64(2) || responses[1]["error_message"] == nil {
			t.Errorf("expected an error response for id 2, got %v", responses[1])
		}
		if responses[2]["buses"] == nil {
			t.Errorf("expected buses for id 3, got %v", responses[2])
		}
	})

	t.Run("not an array", func(t *testing.T) {
		rr := httptest.NewRecorder()
		app.requestsHandler(rr, httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(`{"id": 1}`)))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("too large", func(t *testing.T) {
		body := `[` + strings.Repeat(`{"id": 1, "type": "Map"},`, maxRequestBody/20) + `{"id": 1, "type": "Map"}]`
		rr := httptest.NewRecorder()
		app.requestsHandler(rr, httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body)))

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected status 413, got %d", rr.Code)
		}
	})
}

func TestHandlersWithoutCatalog(t *testing.T) {
	app := newUnloadedApplication(t, config.NewConfig(4000, "testing"))

	tests := []struct {
		name    string
		handler http.HandlerFunc
		req     *http.Request
	}{
		{"stop", func(w http.ResponseWriter, r *http.Request) { app.answer(w, r, requests.StopRequest{Name: "A"}) }, httptest.NewRequest(http.MethodGet, "/v1/stops/A", nil)},
		{"map", app.mapHandler, httptest.NewRequest(http.MethodGet, "/v1/map", nil)},
		{"requests", app.requestsHandler, httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(`[]`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, tt.req)
			if rr.Code != http.StatusServiceUnavailable {
				t.Errorf("expected status 503, got %d", rr.Code)
			}
		})
	}
}

func TestRoutesMiddleware(t *testing.T) {
	app := newTestApplication(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := app.Routes(ctx)

	t.Run("assigns request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))

		if rr.Header().Get(middleware.RequestIDHeader) == "" {
			t.Error("expected a request id header")
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("expected security headers")
		}
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		const id = "0b6f1a3e-7a52-4c2e-9d3e-2f4b8b1c9a10"
		req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
		req.Header.Set(middleware.RequestIDHeader, id)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if got := rr.Header().Get(middleware.RequestIDHeader); got != id {
			t.Errorf("expected request id %q, got %q", id, got)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "catalog_stops") {
			t.Errorf("expected catalog gauges in metrics output")
		}
	})
}
