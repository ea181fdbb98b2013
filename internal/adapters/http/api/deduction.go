package api

import (
	"context"
	"net/http"

	"github.com/okian/detetive/internal/domain/types"
)

// DeductionDependencies defines the interface for reading candidates.
type DeductionDependencies interface {
	Deduction(ctx context.Context, id string) (types.Deduction, error)
}

// DeductionHandler handles deduction requests.
type DeductionHandler struct {
	deps DeductionDependencies
}

// NewDeductionHandler creates a new deduction handler.
func NewDeductionHandler(deps DeductionDependencies) *DeductionHandler {
	return &DeductionHandler{deps: deps}
}

// HandleGetDeduction handles GET /sessions/{id}/deduction requests.
func (h *DeductionHandler) HandleGetDeduction(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Deduction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
