package boardcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/detetive/internal/domain/types"
)

// HTTPClient talks to the companion API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a new HTTP client with timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do sends body as JSON (when non-nil) and decodes a JSON reply into out
// (when non-nil). Any status other than want is an error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want int) error {
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var e apiError
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, path, resp.StatusCode, e.Message)
		}
		return fmt.Errorf("%w: %s %s: %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

// Health checks that the service answers /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, StatusOK)
}

// CreateSession starts a game for players seats.
func (c *HTTPClient) CreateSession(ctx context.Context, players int) (types.Session, error) {
	var s types.Session
	err := c.do(ctx, http.MethodPost, "/sessions", map[string]int{"player_count": players}, &s, StatusCreated)
	return s, err
}

// Cycle advances one cell. Each call carries a fresh request id so a
// retried request cannot advance the cell twice.
func (c *HTTPClient) Cycle(ctx context.Context, sessionID string, m Move) (types.CycleResult, error) {
	var res types.CycleResult
	body := map[string]string{
		"item_id":    m.ItemID,
		"player_id":  m.PlayerID,
		"request_id": uuid.NewString(),
	}
	err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID+"/cycle", body, &res, StatusOK)
	return res, err
}

// Deduction reads the candidate panel.
func (c *HTTPClient) Deduction(ctx context.Context, sessionID string) (types.Deduction, error) {
	var d types.Deduction
	err := c.do(ctx, http.MethodGet, "/sessions/"+sessionID+"/deduction", nil, &d, StatusOK)
	return d, err
}

// DeleteSession removes the session from the server.
func (c *HTTPClient) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+sessionID, nil, nil, StatusNoContent)
}
