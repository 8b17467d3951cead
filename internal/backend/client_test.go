package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
)

// recorded captures what the fake service received.
type recorded struct {
	method string
	path   string
	ctype  string
	body   map[string]interface{}
}

func newFakeService(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.ctype = r.Header.Get("Content-Type")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

const advanceBody = `{"character":{"id":"c1","name":"Ana","age_days":400,"stage":"Adult","resources":{"money":10}},"events":[{"message":"A new day begins."}]}`

func TestRequestShapes(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name     string
		call     func(c *Client) error
		method   string
		path     string
		wantBody map[string]interface{}
		response string
	}{
		{"list", func(c *Client) error { _, err := c.ListCharacters(ctx); return err },
			http.MethodGet, "/api/v1/characters", nil, `[]`},
		{"create", func(c *Client) error { _, err := c.CreateCharacter(ctx, "Ana"); return err },
			http.MethodPost, "/api/v1/character", map[string]interface{}{"name": "Ana"}, `{"id":"c1"}`},
		{"get", func(c *Client) error { _, err := c.GetCharacter(ctx, "c1"); return err },
			http.MethodGet, "/api/v1/character/c1", nil, `{"id":"c1"}`},
		{"events", func(c *Client) error { _, err := c.GetCharacterEvents(ctx, "c1"); return err },
			http.MethodGet, "/api/v1/character/events/c1", nil, `[{"message":"hi"}]`},
		{"reset", func(c *Client) error { _, err := c.ResetCharacter(ctx, "c1"); return err },
			http.MethodPost, "/api/v1/character/reset", map[string]interface{}{"characterId": "c1"}, `{"id":"c1"}`},
		{"advance", func(c *Client) error { _, err := c.AdvanceTime(ctx, "c1", 7); return err },
			http.MethodPost, "/api/v1/time/advance", map[string]interface{}{"actorId": "c1", "days": float64(7)}, advanceBody},
		{"trigger", func(c *Client) error { _, err := c.TriggerEvent(ctx, "c1", ""); return err },
			http.MethodPost, "/api/v1/event/trigger", map[string]interface{}{"actorId": "c1"}, advanceBody},
		{"simulate", func(c *Client) error { _, err := c.SimulateLife(ctx, "c1"); return err },
			http.MethodPost, "/api/v1/life/simulate", map[string]interface{}{"actorId": "c1"}, advanceBody},
		{"perform", func(c *Client) error { _, err := c.PerformAction(ctx, "c1", "action-work"); return err },
			http.MethodPost, "/api/v1/action/perform", map[string]interface{}{"actorId": "c1", "actionId": "action-work"}, `{"id":"c1"}`},
		{"me", func(c *Client) error { _, err := c.Me(ctx); return err },
			http.MethodGet, "/auth/me", nil, `{"id":"u1","email":"a@b.c"}`},
		{"logout", func(c *Client) error { return c.Logout(ctx) },
			http.MethodPost, "/auth/logout", nil, ``},
		{"callback", func(c *Client) error { return c.GoogleCallback(ctx, "abc", "xyz") },
			http.MethodPost, "/auth/google/callback", map[string]interface{}{"code": "abc", "state": "xyz"}, `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, rec := newFakeService(t, http.StatusOK, tc.response)
			if err := tc.call(NewClient(srv.URL)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.method != tc.method || rec.path != tc.path {
				t.Errorf("got %s %s, want %s %s", rec.method, rec.path, tc.method, tc.path)
			}
			if rec.ctype != "application/json" {
				t.Errorf("Content-Type = %q", rec.ctype)
			}
			for k, v := range tc.wantBody {
				if rec.body[k] != v {
					t.Errorf("body[%s] = %v, want %v", k, rec.body[k], v)
				}
			}
			if tc.wantBody != nil && len(rec.body) != len(tc.wantBody) {
				t.Errorf("unexpected body fields: %v", rec.body)
			}
		})
	}
}

func TestAdvanceTimeDecodes(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, advanceBody)
	res, err := NewClient(srv.URL).AdvanceTime(context.Background(), "c1", 1)
	if err != nil {
		t.Fatalf("AdvanceTime: %v", err)
	}
	if res.Character.AgeDays != 400 || res.Character.Resources["money"] != 10 {
		t.Errorf("unexpected character: %+v", res.Character)
	}
	if msgs := res.Messages(); len(msgs) != 1 || msgs[0] != "A new day begins." {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestStatusError(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusUnauthorized, `{"error":"no session"}`)
	_, err := NewClient(srv.URL).Me(context.Background())

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusUnauthorized || se.Body != `{"error":"no session"}` {
		t.Errorf("unexpected status error: %+v", se)
	}
	if !IsUnauthenticated(err) {
		t.Error("401 should count as unauthenticated")
	}
}

func TestDecodeError(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, `{not json`)
	_, err := NewClient(srv.URL).GetCharacter(context.Background(), "c1")

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if IsUnauthenticated(err) {
		t.Error("decode failure is not an auth failure")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := metrics.NewCollector()
	_, err := NewClient(url, WithMetrics(m)).ListCharacters(context.Background())

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if m.BackendRequests != 1 || m.BackendErrors != 1 {
		t.Errorf("metrics: requests=%d errors=%d", m.BackendRequests, m.BackendErrors)
	}
}

func TestCancelledContext(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).ListCharacters(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBaseURLDefaults(t *testing.T) {
	if got := NewClient("").BaseURL(); got != DefaultBaseURL {
		t.Errorf("default base = %q", got)
	}
	c := NewClient("http://api.example/")
	if got := c.GoogleLoginURL(); got != "http://api.example/auth/google/login" {
		t.Errorf("login url = %q", got)
	}
}
