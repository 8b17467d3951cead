package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MRamiBalles/LifeSimulator/internal/backend"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

// fakeService is a minimal remote simulation service.
type fakeService struct {
	mu       sync.Mutex
	signedIn bool
	failAll  bool
	ageDays  int
	calls    []string
	bodies   []map[string]interface{}
	created  string
}

func (f *fakeService) character() backend.Character {
	return backend.Character{ID: "c1", Name: "Remote", AgeDays: f.ageDays, Stage: "Adult",
		Resources: map[string]float64{"health": 90, "energy": 50}}
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.calls = append(f.calls, r.URL.Path)
	f.bodies = append(f.bodies, body)

	if f.failAll && r.URL.Path != "/auth/me" {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	enc := json.NewEncoder(w)
	switch r.URL.Path {
	case "/auth/me":
		if !f.signedIn {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		enc.Encode(backend.User{ID: "u1", Name: "Ana"})
	case "/api/v1/characters":
		if f.created == "" {
			enc.Encode([]backend.Character{})
			return
		}
		enc.Encode([]backend.Character{f.character()})
	case "/api/v1/character":
		f.created = body["name"].(string)
		enc.Encode(f.character())
	case "/api/v1/character/events/c1":
		enc.Encode([]backend.EventRecord{{Message: "old"}, {Message: "newer"}})
	case "/api/v1/time/advance":
		f.ageDays += int(body["days"].(float64))
		enc.Encode(backend.AdvanceResult{Character: f.character(), Events: []backend.EventRecord{{Message: "Time passes."}}})
	case "/api/v1/event/trigger", "/api/v1/life/simulate":
		enc.Encode(backend.AdvanceResult{Character: f.character(), Events: []backend.EventRecord{{Message: "Something happened."}}})
	case "/api/v1/character/reset":
		f.ageDays = 0
		enc.Encode(f.character())
	case "/api/v1/action/perform":
		enc.Encode(f.character())
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) last() (string, map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.calls) - 1
	return f.calls[n], f.bodies[n]
}

func startFake(t *testing.T, f *fakeService) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL)
}

func TestSelectFallsBackToDemo(t *testing.T) {
	client := startFake(t, &fakeService{})
	d, err := Select(context.Background(), client, engine.NewEngine(engine.Options{}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mode() != ModeDemo {
		t.Errorf("mode = %s, want demo", d.Mode())
	}
	if d.Snapshot().Name != "Demo Character" {
		t.Errorf("demo driver should expose the demo character")
	}
}

func TestSelectRemoteCreatesCharacter(t *testing.T) {
	f := &fakeService{signedIn: true}
	client := startFake(t, f)

	d, err := Select(context.Background(), client, engine.NewEngine(engine.Options{}), nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if d.Mode() != ModeRemote {
		t.Fatalf("mode = %s, want remote", d.Mode())
	}
	if f.created != "Ana" {
		t.Errorf("expected a character named after the user, got %q", f.created)
	}
	if ev := d.Events(); len(ev) != 2 || ev[0] != "newer" {
		t.Errorf("history should be newest first, got %v", ev)
	}
}

func TestRemoteActionMapping(t *testing.T) {
	cases := []struct {
		action engine.ActionID
		path   string
		field  string
		value  interface{}
	}{
		{engine.ActionAdvanceDay, "/api/v1/time/advance", "days", float64(1)},
		{engine.ActionAdvanceWeek, "/api/v1/time/advance", "days", float64(7)},
		{engine.ActionAdvanceMonth, "/api/v1/time/advance", "days", float64(30)},
		{engine.ActionTriggerEvent, "/api/v1/event/trigger", "actorId", "c1"},
		{engine.ActionSimulateLife, "/api/v1/life/simulate", "actorId", "c1"},
		{engine.ActionResetCharacter, "/api/v1/character/reset", "characterId", "c1"},
		{engine.ActionWork, "/api/v1/action/perform", "actionId", "action-work"},
		{"action-unknown", "/api/v1/action/perform", "actionId", "action-unknown"},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			f := &fakeService{}
			client := startFake(t, f)
			d := NewRemoteDriver(client, f.character(), nil)

			if _, err := d.Apply(context.Background(), tc.action); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			path, body := f.last()
			if path != tc.path {
				t.Errorf("path = %s, want %s", path, tc.path)
			}
			if body[tc.field] != tc.value {
				t.Errorf("body[%s] = %v, want %v", tc.field, body[tc.field], tc.value)
			}
		})
	}
}

func TestRemoteApplyUpdatesSnapshot(t *testing.T) {
	f := &fakeService{ageDays: 364}
	d := NewRemoteDriver(startFake(t, f), f.character(), nil)

	u, err := d.Apply(context.Background(), engine.ActionAdvanceDay)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if u.Snapshot.Day != 1 || u.Snapshot.Year != 2 || u.Snapshot.Age != 1 {
		t.Errorf("unexpected calendar: %+v", u.Snapshot)
	}
	if u.Message != "Time passes." || d.Events()[0] != "Time passes." {
		t.Errorf("message = %q, log = %v", u.Message, d.Events())
	}

	u, err = d.Apply(context.Background(), engine.ActionResetCharacter)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ev := d.Events(); len(ev) != 1 || ev[0] != "Reset to birth." {
		t.Errorf("reset log = %v", ev)
	}
	if u.Sequence != 2 {
		t.Errorf("sequence = %d", u.Sequence)
	}
	if cur := d.Current(); cur.Sequence != 2 || cur.At.IsZero() || cur.Snapshot.Age != u.Snapshot.Age {
		t.Errorf("current = seq %d at %v age %d", cur.Sequence, cur.At, cur.Snapshot.Age)
	}
}

func TestRemoteFailureKeepsLastSnapshot(t *testing.T) {
	f := &fakeService{ageDays: 100}
	d := NewRemoteDriver(startFake(t, f), f.character(), nil)
	before := d.Snapshot()

	f.mu.Lock()
	f.failAll = true
	f.mu.Unlock()

	u, err := d.Apply(context.Background(), engine.ActionAdvanceWeek)
	var se *backend.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
	if u.Snapshot.Day != before.Day || d.Snapshot().Day != before.Day {
		t.Errorf("snapshot changed on failure: %+v", u.Snapshot)
	}
	if len(d.Events()) != 0 {
		t.Errorf("log changed on failure: %v", d.Events())
	}
}

func TestLocalDriverDelegates(t *testing.T) {
	d := NewLocalDriver(engine.NewEngine(engine.Options{Random: func() float64 { return 0.99 }}))
	u, err := d.Apply(context.Background(), engine.ActionStudy)
	if err != nil {
		t.Fatalf("local apply never fails: %v", err)
	}
	if u.Message != engine.MsgStudied || d.Events()[0] != engine.MsgStudied {
		t.Errorf("unexpected update: %+v", u)
	}
	if _, err := d.Rename(context.Background(), "Zoe"); err != nil || d.Snapshot().Name != "Zoe" {
		t.Errorf("rename: %v, name %q", err, d.Snapshot().Name)
	}
	if cur := d.Current(); cur.Sequence != 2 || cur.At.IsZero() || cur.Snapshot.Name != "Zoe" {
		t.Errorf("current = seq %d at %v name %q", cur.Sequence, cur.At, cur.Snapshot.Name)
	}
}
