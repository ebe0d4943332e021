package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/hiscorewatch/internal/domain/model"
)

// EventDependencies receives detections from the event source.
type EventDependencies interface {
	OnSubjectObserved(ctx context.Context, name string, isLocalSelf bool) model.Outcome
	OnChannelMemberJoined(ctx context.Context, name string) model.Outcome
	OnChannelMembershipChanged(ctx context.Context, members []string) []model.Detection
}

// EventsHandler handles event requests
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type observedRequest struct {
	Name      string `json:"name"`
	LocalSelf bool   `json:"local_self"`
}

type joinRequest struct {
	Name string `json:"name"`
}

// membersRequest carries a channel snapshot. A null or missing list means
// the channel was left.
type membersRequest struct {
	Members []string `json:"members"`
}

// HandleObserved handles POST /events/observed requests
func (h *EventsHandler) HandleObserved(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_observed"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req observedRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	writeOutcome(w, op, h.deps.OnSubjectObserved(r.Context(), req.Name, req.LocalSelf))
}

// HandleChannelJoin handles POST /events/channel/join requests
func (h *EventsHandler) HandleChannelJoin(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_channel_join"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req joinRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	writeOutcome(w, op, h.deps.OnChannelMemberJoined(r.Context(), req.Name))
}

// HandleChannelMembers handles PUT /events/channel/members requests
func (h *EventsHandler) HandleChannelMembers(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_channel_members"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req membersRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out := h.deps.OnChannelMembershipChanged(r.Context(), req.Members)
	if out == nil {
		out = []model.Detection{}
	}
	writeJSON(w, http.StatusOK, membersResponse{Detections: out})
}

// writeOutcome maps a detection outcome to a response. Rejections that are
// part of normal operation are acknowledged with 200, like duplicates.
func writeOutcome(w http.ResponseWriter, op string, o model.Outcome) {
	switch o {
	case model.Accepted:
		writeJSON(w, http.StatusAccepted, detectionResponse{Status: "accepted", Outcome: o})
	case model.RejectedBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	case model.RejectedStopped:
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
	default:
		writeJSON(w, http.StatusOK, detectionResponse{Status: "rejected", Outcome: o})
	}
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("missing body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
