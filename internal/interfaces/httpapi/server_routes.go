package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/event/summary", handler.GetEventSummary)
	mux.HandleFunc("GET /v1/event/matches", handler.ListEventMatches)
	mux.HandleFunc("POST /v1/webhooks/tba", handler.IngestTBAWebhook)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/event-check", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunEventCheckJob)))
	mux.Handle("POST /v1/internal/jobs/event-refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunEventRefreshJob)))
	mux.Handle("POST /v1/internal/jobs/cache-cleanup", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCacheCleanupJob)))
	mux.Handle("POST /v1/internal/scheduler/start", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.StartScheduler)))
	mux.Handle("POST /v1/internal/scheduler/stop", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.StopScheduler)))
	mux.Handle("GET /v1/internal/scheduler/status", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SchedulerStatus)))
	mux.Handle("GET /v1/internal/webhooks/recent", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListRecentWebhooks)))
	mux.Handle("GET /v1/internal/config/{key}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetConfigEntry)))
	mux.Handle("PUT /v1/internal/config/{key}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdateConfigEntry)))
}
