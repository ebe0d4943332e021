// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/hiscorewatch/internal/adapters/presenter"
	"github.com/okian/hiscorewatch/internal/domain/model"
)

// DefaultMaxAlerts bounds GET /alerts?limit=N.
const DefaultMaxAlerts = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service.
type Dependencies interface {
	EventDependencies
	IgnoreDependencies
	AlertsDependencies
	StatsProvider
}

// Server wires HTTP routes for the ingress API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
	ignoreHandler *IgnoreHandler
	alertsHandler *AlertsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxAlerts int) *Server {
	if maxAlerts <= 0 {
		maxAlerts = DefaultMaxAlerts
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		eventsHandler: NewEventsHandler(deps),
		ignoreHandler: NewIgnoreHandler(deps),
		alertsHandler: NewAlertsHandler(deps, maxAlerts),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events/observed", MetricsMiddleware(s.eventsHandler.HandleObserved, "events_observed"))
	mux.HandleFunc("/events/channel/join", MetricsMiddleware(s.eventsHandler.HandleChannelJoin, "events_channel_join"))
	mux.HandleFunc("/events/channel/members", MetricsMiddleware(s.eventsHandler.HandleChannelMembers, "events_channel_members"))
	mux.HandleFunc("/ignore/toggle", MetricsMiddleware(s.ignoreHandler.HandleToggle, "ignore_toggle"))
	mux.HandleFunc("/ignore", MetricsMiddleware(s.ignoreHandler.HandleList, "ignore"))
	mux.HandleFunc("/alerts", MetricsMiddleware(s.alertsHandler.HandleRecent, "alerts"))
}

type detectionResponse struct {
	Status  string        `json:"status"`
	Outcome model.Outcome `json:"outcome"`
}

type membersResponse struct {
	Detections []model.Detection `json:"detections"`
}

type ignoreResponse struct {
	Name    string `json:"name,omitempty"`
	Ignored bool   `json:"ignored"`
}

type ignoreListResponse struct {
	Names []string `json:"names"`
}

type alertsResponse struct {
	Alerts []presenter.Alert `json:"alerts"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
