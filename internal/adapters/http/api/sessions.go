package api

import (
	"context"
	"net/http"

	"github.com/okian/detetive/internal/domain/types"
)

// SessionDependencies defines the session lifecycle and screen operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context, playerCount int) (types.Session, error)
	GetSession(ctx context.Context, id string) (types.Session, error)
	DeleteSession(ctx context.Context, id string) error
	NewGame(ctx context.Context, id string, playerCount int) (types.Session, error)
	Home(ctx context.Context, id string) (types.Session, error)
	Setup(ctx context.Context, id string) (types.Session, error)
	SelectPlayerCount(ctx context.Context, id string, n int) (types.Session, error)
	StartGame(ctx context.Context, id string) (types.Session, error)
}

// playerCountRequest mirrors the OpenAPI schema shared by create, new-game
// and player-count. A missing player_count means the server default.
type playerCountRequest struct {
	PlayerCount int `json:"player_count"`
}

// SessionHandler handles session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req playerCountRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, err := h.deps.CreateSession(r.Context(), req.PlayerCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNewGame handles POST /sessions/{id}/new-game requests.
func (h *SessionHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.new_game"
	var req playerCountRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w)(h.deps.NewGame(r.Context(), r.PathValue("id"), req.PlayerCount))
}

// HandleHome handles POST /sessions/{id}/home requests.
func (h *SessionHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.deps.Home(r.Context(), r.PathValue("id")))
}

// HandleSetup handles POST /sessions/{id}/setup requests.
func (h *SessionHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.deps.Setup(r.Context(), r.PathValue("id")))
}

// HandlePlayerCount handles PUT /sessions/{id}/player-count requests.
func (h *SessionHandler) HandlePlayerCount(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_count"
	var req playerCountRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w)(h.deps.SelectPlayerCount(r.Context(), r.PathValue("id"), req.PlayerCount))
}

// HandleStart handles POST /sessions/{id}/start requests.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.deps.StartGame(r.Context(), r.PathValue("id")))
}

func (h *SessionHandler) respond(w http.ResponseWriter) func(types.Session, error) {
	return func(snap types.Session, err error) {
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
