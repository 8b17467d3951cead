package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/gateway"
	"github.com/MRamiBalles/LifeSimulator/internal/infra/storage"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
)

// maxBodyBytes caps request bodies on the demo API.
const maxBodyBytes = 4 << 10

// DemoAPI serves the REST surface around a Hub.
type DemoAPI struct {
	hub       *Hub
	recapper  *storage.Recapper
	sessionID string
	origins   Origins
	logger    *logger.Logger
	metrics   *metrics.Collector
}

// APIOptions configures NewDemoAPI. Journal fields may be empty, which
// disables the journal endpoint.
type APIOptions struct {
	Recapper  *storage.Recapper
	SessionID string
	Origins   Origins
	Logger    *logger.Logger
	Metrics   *metrics.Collector
}

func NewDemoAPI(hub *Hub, opts APIOptions) *DemoAPI {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = hub.metrics
	}
	return &DemoAPI{
		hub:       hub,
		recapper:  opts.Recapper,
		sessionID: opts.SessionID,
		origins:   opts.Origins,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// ActionRequest is the body of POST /api/demo/action.
type ActionRequest struct {
	Action string `json:"action"`
}

// RenameRequest is the body of POST /api/demo/character.
type RenameRequest struct {
	Name string `json:"name"`
}

// StateResponse wraps an update with the mode it came from.
type StateResponse struct {
	Mode string `json:"mode"`
	engine.Update
}

// HandleState returns the current snapshot and Event Log.
// GET /api/demo/state
func (a *DemoAPI) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	u, err := a.hub.State(r.Context())
	if err != nil {
		a.hubError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{Mode: string(a.hub.Mode()), Update: u})
}

// HandleAction applies one action.
// POST /api/demo/action {"action": "advance-day"}
func (a *DemoAPI) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	u, err := a.hub.Submit(r.Context(), engine.ActionID(req.Action))
	if err != nil {
		a.hubError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{Mode: string(a.hub.Mode()), Update: u})
}

// HandleRename sets the character's name.
// POST /api/demo/character {"name": "Ana"}
func (a *DemoAPI) HandleRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req RenameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	u, err := a.hub.Rename(r.Context(), req.Name)
	if err != nil {
		a.hubError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{Mode: string(a.hub.Mode()), Update: u})
}

// HandleActions lists the recognised action identifiers.
// GET /api/demo/actions
func (a *DemoAPI) HandleActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"actions": engine.KnownActions()})
}

// HandleJournal returns this session's journal history.
// GET /api/demo/journal?since=N
func (a *DemoAPI) HandleJournal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.recapper == nil {
		jsonError(w, "Journal disabled", http.StatusNotFound)
		return
	}

	var since int64
	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			jsonError(w, "Invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}

	recap, err := a.recapper.GenerateRecap(r.Context(), a.sessionID, since)
	if err != nil {
		a.logger.Error("journal recap failed", "err", err)
		jsonError(w, "Journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"recap":        recap,
	})
}

// HandleHealth reports liveness.
// GET /healthz
func (a *DemoAPI) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"mode":    a.hub.Mode(),
		"clients": a.hub.ClientCount(),
	})
}

// Routes mounts every endpoint behind the CORS middleware.
func (a *DemoAPI) Routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/demo/state", a.HandleState)
	mux.HandleFunc("/api/demo/action", a.HandleAction)
	mux.HandleFunc("/api/demo/character", a.HandleRename)
	mux.HandleFunc("/api/demo/actions", a.HandleActions)
	mux.HandleFunc("/api/demo/journal", a.HandleJournal)
	mux.HandleFunc("/healthz", a.HandleHealth)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.Handle("/metrics/prometheus", a.metrics.PrometheusHandler())
	mux.HandleFunc("/ws", a.hub.ServeWS(ctx, a.origins.Allowed))
	return a.origins.EnableCORS(mux)
}

func (a *DemoAPI) hubError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, character.ErrInvalidName):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gateway.ErrRenameUnsupported):
		jsonError(w, err.Error(), http.StatusNotImplemented)
	case errors.Is(err, ErrHubStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		jsonError(w, "Server unavailable", http.StatusServiceUnavailable)
	default:
		a.logger.Error("action failed", "err", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
