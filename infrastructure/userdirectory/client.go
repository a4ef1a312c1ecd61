/*
Package userdirectory looks users up in the remote user service.

Client performs the raw HTTP call. Directory wraps it in a circuit breaker and turns every
failure into "unknown", so order reads keep working while the user service is down.
*/
package userdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderservice/domain/user"
	"orderservice/infrastructure/persistence"
)

// errUserNotFound is returned for a 404; the user service answered correctly
var errUserNotFound = errors.New("user not found")

type tokenKey struct{}

// ContextWithToken attaches the caller's bearer token for forwarding to the user service
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the forwarded bearer token, or ""
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// apiResponse is the envelope the user service wraps payloads in
type apiResponse struct {
	Success bool           `json:"success"`
	Data    *user.Snapshot `json:"data"`
	Message string         `json:"message"`
}

// Client calls GET {baseURL}/api/v1/users/{id}
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetUser returns the user snapshot. A missing user yields errUserNotFound; transport
// failures, non-2xx answers and unsuccessful envelopes yield other errors.
func (c *Client) GetUser(ctx context.Context, userID string) (user.Snapshot, error) {
	endpoint := c.baseURL + "/api/v1/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return user.Snapshot{}, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Snapshot{}, fmt.Errorf("call user service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return user.Snapshot{}, errUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return user.Snapshot{}, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return user.Snapshot{}, fmt.Errorf("decode user response: %w", err)
	}
	if !body.Success || body.Data == nil {
		return user.Snapshot{}, fmt.Errorf("user service reported failure: %s", body.Message)
	}
	return *body.Data, nil
}
