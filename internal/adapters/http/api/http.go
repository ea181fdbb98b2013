// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/detetive/internal/app"
	"github.com/okian/detetive/internal/adapters/repository"
	"github.com/okian/detetive/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	SessionDependencies
	CycleDependencies
	DeductionDependencies
	EventDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	catalogHandler   *CatalogHandler
	sessionHandler   *SessionHandler
	cycleHandler     *CycleHandler
	deductionHandler *DeductionHandler
	eventsHandler    *EventsHandler
	boardHandler     *boardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		catalogHandler:   NewCatalogHandler(deps),
		sessionHandler:   NewSessionHandler(deps),
		cycleHandler:     NewCycleHandler(deps),
		deductionHandler: NewDeductionHandler(deps),
		eventsHandler:    NewEventsHandler(deps),
		boardHandler:     newBoardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /board", s.boardHandler.HandleBoard)
	mux.HandleFunc("GET /catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionHandler.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionHandler.HandleDelete, "session"))
	mux.HandleFunc("POST /sessions/{id}/new-game", MetricsMiddleware(s.sessionHandler.HandleNewGame, "new_game"))
	mux.HandleFunc("POST /sessions/{id}/home", MetricsMiddleware(s.sessionHandler.HandleHome, "home"))
	mux.HandleFunc("POST /sessions/{id}/setup", MetricsMiddleware(s.sessionHandler.HandleSetup, "setup"))
	mux.HandleFunc("PUT /sessions/{id}/player-count", MetricsMiddleware(s.sessionHandler.HandlePlayerCount, "player_count"))
	mux.HandleFunc("POST /sessions/{id}/start", MetricsMiddleware(s.sessionHandler.HandleStart, "start"))

	mux.HandleFunc("POST /sessions/{id}/cycle", MetricsMiddleware(s.cycleHandler.HandleCycle, "cycle"))
	mux.HandleFunc("GET /sessions/{id}/deduction", MetricsMiddleware(s.deductionHandler.HandleGetDeduction, "deduction"))
	mux.HandleFunc("GET /sessions/{id}/events", MetricsMiddleware(s.eventsHandler.HandleStream, "events"))
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

// writeServiceError maps upstream sentinel errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, session.ErrInvalidPlayerCount),
		errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, session.ErrUnknownPlayer):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrWrongScreen),
		errors.Is(err, session.ErrNotInGame):
		writeError(w, http.StatusConflict, "wrong_screen", err)
	case errors.Is(err, repository.ErrCapacity),
		errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// maxBodyBytes bounds request bodies; every request shape is tiny.
const maxBodyBytes = 1 << 16

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
