package app

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"transitcatalog.org/internal/middleware"
)

// Routes registers the catalog endpoints and wraps them with the request id, Sentry and
// security header middlewares.
//
//   - GET  /v1/healthcheck
//   - GET  /v1/stops/:name
//   - GET  /v1/buses/:name
//   - GET  /v1/route?from=&to=
//   - GET  /v1/map
//   - POST /v1/requests
//   - GET  /metrics, served from a cache refreshed every metrics_cache_ttl
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/v1/stops/:name", app.stopHandler)
	router.HandlerFunc(http.MethodGet, "/v1/buses/:name", app.busHandler)
	router.HandlerFunc(http.MethodGet, "/v1/route", app.routeHandler)
	router.HandlerFunc(http.MethodGet, "/v1/map", app.mapHandler)
	router.HandlerFunc(http.MethodPost, "/v1/requests", app.requestsHandler)

	ttl := app.ConfigService.Config.Settings.MetricsCacheTTL
	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, ttl))

	handler := middleware.SentryMiddleware(router)
	handler = middleware.RequestID(handler)
	return middleware.SecurityHeaders(handler)
}
