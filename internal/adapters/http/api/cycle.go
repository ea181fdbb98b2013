package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/detetive/internal/domain/types"
)

// CycleDependencies defines the interface for advancing a grid cell.
type CycleDependencies interface {
	Cycle(ctx context.Context, id, itemID, playerID, requestID string) (types.CycleResult, error)
}

// cycleRequest mirrors the OpenAPI schema for POST /sessions/{id}/cycle.
type cycleRequest struct {
	ItemID    string `json:"item_id"`
	PlayerID  string `json:"player_id"`
	RequestID string `json:"request_id,omitempty"`
}

func (c cycleRequest) validate() error {
	switch {
	case strings.TrimSpace(c.ItemID) == "":
		return errors.New("missing item_id")
	case strings.TrimSpace(c.PlayerID) == "":
		return errors.New("missing player_id")
	}
	return nil
}

// CycleHandler handles cycle requests.
type CycleHandler struct {
	deps CycleDependencies
}

// NewCycleHandler creates a new cycle handler.
func NewCycleHandler(deps CycleDependencies) *CycleHandler {
	return &CycleHandler{deps: deps}
}

// HandleCycle handles POST /sessions/{id}/cycle requests.
func (h *CycleHandler) HandleCycle(w http.ResponseWriter, r *http.Request) {
	const op = "api.cycle"
	var req cycleRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Cycle(r.Context(), r.PathValue("id"), req.ItemID, req.PlayerID, req.RequestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
