package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/hiscorewatch/internal/app"
	"github.com/okian/hiscorewatch/internal/settings"
)

// IgnoreDependencies manages the ignore list.
type IgnoreDependencies interface {
	OnContextMenuRequested(ctx context.Context, name string) (bool, error)
	IgnoreList() []string
}

// IgnoreHandler handles ignore list requests
type IgnoreHandler struct {
	deps IgnoreDependencies
}

// NewIgnoreHandler creates a new ignore handler
func NewIgnoreHandler(deps IgnoreDependencies) *IgnoreHandler {
	return &IgnoreHandler{deps: deps}
}

type toggleRequest struct {
	Name string `json:"name"`
}

// HandleToggle handles POST /ignore/toggle requests
func (h *IgnoreHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_ignore_toggle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req toggleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}

	ignored, err := h.deps.OnContextMenuRequested(r.Context(), req.Name)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ignoreResponse{Name: req.Name, Ignored: ignored})
	case errors.Is(err, settings.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// HandleList handles GET /ignore requests
func (h *IgnoreHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names := h.deps.IgnoreList()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ignoreListResponse{Names: names})
}
