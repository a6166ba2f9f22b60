package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"transitcatalog.org/internal/middleware"
	"transitcatalog.org/internal/requests"
)

// maxRequestBody bounds the size of a POST /v1/requests body.
const maxRequestBody = 1 << 20

// HealthStatus is the JSON response of the /v1/healthcheck endpoint.
// The application is ready once a catalog is loaded.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Stops       int    `json:"stops"`
	Buses       int    `json:"buses"`
	Ready       bool   `json:"ready"`
}

// healthcheckHandler responds with the application's health status, and with HTTP 500
// while no catalog is loaded.
func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:      "available",
		Environment: app.ConfigService.Config.Env,
		Version:     app.Version,
	}
	if c := app.Catalog(); c != nil {
		status.Stops = c.StopCount()
		status.Buses = c.BusCount()
		status.Ready = true
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusInternalServerError
	}
	app.writeJSON(w, r, code, status)
}

func (app *Application) stopHandler(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	app.answer(w, r, requests.StopRequest{Name: name})
}

func (app *Application) busHandler(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	app.answer(w, r, requests.BusRequest{Name: name})
}

func (app *Application) routeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := requests.RouteRequest{From: query.Get("from"), To: query.Get("to")}
	if req.From == "" || req.To == "" {
		app.writeJSON(w, r, http.StatusBadRequest, requests.ErrorResponse{ErrorMessage: "from and to are required"})
		return
	}
	app.answer(w, r, req)
}

// mapHandler serves the network map as an SVG image.
func (app *Application) mapHandler(w http.ResponseWriter, r *http.Request) {
	processor := app.Processor()
	if processor == nil {
		app.writeJSON(w, r, http.StatusServiceUnavailable, requests.ErrorResponse{ErrorMessage: "catalog not loaded"})
		return
	}

	switch resp := processor.Process(requests.MapRequest{}).(type) {
	case requests.MapResponse:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(resp.Map))
	default:
		app.writeJSON(w, r, http.StatusInternalServerError, resp)
	}
}

// requestsHandler answers a JSON array of statistics requests in the batch format.
func (app *Application) requestsHandler(w http.ResponseWriter, r *http.Request) {
	processor := app.Processor()
	if processor == nil {
		app.writeJSON(w, r, http.StatusServiceUnavailable, requests.ErrorResponse{ErrorMessage: "catalog not loaded"})
		return
	}

	var stats []json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&stats); err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		app.writeJSON(w, r, code, requests.ErrorResponse{ErrorMessage: "body must be a JSON array of requests"})
		return
	}

	app.writeJSON(w, r, http.StatusOK, processor.ProcessAll(stats))
}

// answer processes a single query and maps not-found outcomes to HTTP 404.
func (app *Application) answer(w http.ResponseWriter, r *http.Request, req requests.Request) {
	processor := app.Processor()
	if processor == nil {
		app.writeJSON(w, r, http.StatusServiceUnavailable, requests.ErrorResponse{ErrorMessage: "catalog not loaded"})
		return
	}

	resp := processor.Process(req)
	code := http.StatusOK
	if errResp, ok := resp.(requests.ErrorResponse); ok {
		code = http.StatusInternalServerError
		if errResp.ErrorMessage == requests.NotFoundMessage {
			code = http.StatusNotFound
		}
	}
	app.writeJSON(w, r, code, resp)
}

func (app *Application) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Error("failed to write response",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
}
