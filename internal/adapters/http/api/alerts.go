package api

import (
	"net/http"
	"strconv"

	"github.com/okian/hiscorewatch/internal/adapters/presenter"
)

// AlertsDependencies exposes the presented alert history.
type AlertsDependencies interface {
	RecentAlerts(n int) []presenter.Alert
}

// AlertsHandler handles alert history requests
type AlertsHandler struct {
	deps     AlertsDependencies
	maxLimit int
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(deps AlertsDependencies, maxLimit int) *AlertsHandler {
	return &AlertsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleRecent handles GET /alerts?limit=N requests. Without a limit the
// newest maxLimit alerts are returned.
func (h *AlertsHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_alerts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	alerts := h.deps.RecentAlerts(n)
	if alerts == nil {
		alerts = []presenter.Alert{}
	}
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: alerts})
}
