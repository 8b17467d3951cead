// Package backend is the HTTP client for the remote simulation service.
//
// Every call is bound to the caller's context. There are no retries and no
// client-side timeout: a failed call is terminal and classified as a
// *TransportError, *StatusError or *DecodeError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8084"

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 4 << 10

// Client talks to the remote simulation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Collector
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to carry a
// cookie jar for the session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records every call on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListCharacters(ctx context.Context) ([]Character, error) {
	var out []Character
	err := c.do(ctx, "list characters", http.MethodGet, "/api/v1/characters", nil, &out)
	return out, err
}

func (c *Client) CreateCharacter(ctx context.Context, name string) (*Character, error) {
	var out Character
	if err := c.do(ctx, "create character", http.MethodPost, "/api/v1/character", createCharacterRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (*Character, error) {
	var out Character
	if err := c.do(ctx, "get character", http.MethodGet, "/api/v1/character/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCharacterEvents(ctx context.Context, id string) ([]EventRecord, error) {
	var out []EventRecord
	err := c.do(ctx, "get character events", http.MethodGet, "/api/v1/character/events/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ResetCharacter(ctx context.Context, characterID string) (*Character, error) {
	var out Character
	if err := c.do(ctx, "reset character", http.MethodPost, "/api/v1/character/reset", resetRequest{CharacterID: characterID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdvanceTime moves the character forward by days.
func (c *Client) AdvanceTime(ctx context.Context, actorID string, days int) (*AdvanceResult, error) {
	var out AdvanceResult
	if err := c.do(ctx, "advance time", http.MethodPost, "/api/v1/time/advance", advanceRequest{ActorID: actorID, Days: days}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerEvent fires a random event. An empty eventType lets the service pick.
func (c *Client) TriggerEvent(ctx context.Context, actorID, eventType string) (*AdvanceResult, error) {
	var out AdvanceResult
	if err := c.do(ctx, "trigger event", http.MethodPost, "/api/v1/event/trigger", triggerRequest{ActorID: actorID, EventType: eventType}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SimulateLife(ctx context.Context, actorID string) (*AdvanceResult, error) {
	var out AdvanceResult
	if err := c.do(ctx, "simulate life", http.MethodPost, "/api/v1/life/simulate", simulateRequest{ActorID: actorID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PerformAction(ctx context.Context, actorID, actionID string) (*Character, error) {
	var out Character
	if err := c.do(ctx, "perform action", http.MethodPost, "/api/v1/action/perform", performRequest{ActorID: actorID, ActionID: actionID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user. Any error means unauthenticated.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}

// GoogleLoginURL is where the user agent is redirected to start OAuth.
func (c *Client) GoogleLoginURL() string {
	return c.baseURL + "/auth/google/login"
}

// GoogleCallback completes the OAuth exchange.
func (c *Client) GoogleCallback(ctx context.Context, code, state string) error {
	return c.do(ctx, "google callback", http.MethodPost, "/auth/google/callback", callbackRequest{Code: code, State: state}, nil)
}

// do sends body as JSON and decodes the response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) (err error) {
	if c.metrics != nil {
		defer func() { c.metrics.RecordBackendCall(err) }()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
