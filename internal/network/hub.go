// Package network hosts the demo server: a Hub goroutine that owns the
// simulation driver, WebSocket clients that submit actions and receive
// updates, and the HTTP handlers around them.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/gateway"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/optimization"
)

// ErrHubStopped is returned for submissions after Run has exited.
var ErrHubStopped = errors.New("hub stopped")

type requestKind int

const (
	requestApply requestKind = iota
	requestRename
	requestState
)

type request struct {
	kind   requestKind
	action engine.ActionID
	name   string
	reply  chan reply
}

type reply struct {
	update engine.Update
	err    error
}

// directMessage is delivered to one client only.
type directMessage struct {
	client  *Client
	payload []byte
}

// Hub serialises every action through a single goroutine, the only caller
// of the driver, and fans the resulting updates out to WebSocket clients.
type Hub struct {
	driver  gateway.Driver
	tuning  *optimization.Config
	logger  *logger.Logger
	metrics *metrics.Collector

	submit     chan request
	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	clients map[*Client]bool
	mu      sync.Mutex
}

// HubOptions configures NewHub. Nil fields pick defaults.
type HubOptions struct {
	Tuning  *optimization.Config
	Logger  *logger.Logger
	Metrics *metrics.Collector
}

// NewHub initializes a Hub around driver. Call Run before submitting.
func NewHub(driver gateway.Driver, opts HubOptions) *Hub {
	if opts.Tuning == nil {
		opts.Tuning = optimization.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	return &Hub{
		driver:     driver,
		tuning:     opts.Tuning,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		submit:     make(chan request, opts.Tuning.ActionQueueBuffer),
		broadcast:  make(chan []byte, opts.Tuning.BroadcastChannelBuffer),
		direct:     make(chan directMessage, opts.Tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Mode reports which driver the hub is running.
func (h *Hub) Mode() gateway.Mode { return h.driver.Mode() }

// Run starts the action loop and handles client connections and broadcasts
// until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	go h.process(ctx)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("websocket client connected", "remote", client.remote)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("websocket client disconnected", "remote", client.remote)
			}
			h.mu.Unlock()
		case m := <-h.direct:
			h.mu.Lock()
			if _, ok := h.clients[m.client]; ok {
				select {
				case m.client.send <- m.payload:
					h.metrics.RecordWSMessage(false)
				default:
				}
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					// Slow consumer: drop it rather than stall everyone.
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// process is the driver's only caller.
func (h *Hub) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.submit:
			var (
				u   engine.Update
				err error
			)
			switch req.kind {
			case requestApply:
				u, err = h.driver.Apply(ctx, req.action)
			case requestRename:
				u, err = h.driver.Rename(ctx, req.name)
			case requestState:
				u = h.driver.Current()
			}
			req.reply <- reply{update: u, err: err}
			if err == nil && req.kind != requestState {
				h.publish(ctx, u)
			}
		}
	}
}

func (h *Hub) publish(ctx context.Context, u engine.Update) {
	payload, err := json.Marshal(u)
	if err != nil {
		h.logger.Error("failed to serialize update", "err", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-ctx.Done():
	}
}

// Submit applies an action and waits for the result.
func (h *Hub) Submit(ctx context.Context, id engine.ActionID) (engine.Update, error) {
	return h.roundTrip(ctx, request{kind: requestApply, action: id})
}

// Rename renames the character.
func (h *Hub) Rename(ctx context.Context, name string) (engine.Update, error) {
	return h.roundTrip(ctx, request{kind: requestRename, name: name})
}

// State returns the current snapshot and Event Log.
func (h *Hub) State(ctx context.Context) (engine.Update, error) {
	return h.roundTrip(ctx, request{kind: requestState})
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) roundTrip(ctx context.Context, req request) (engine.Update, error) {
	req.reply = make(chan reply, 1)
	select {
	case h.submit <- req:
	case <-h.done:
		return engine.Update{}, ErrHubStopped
	case <-ctx.Done():
		return engine.Update{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.update, r.err
	case <-h.done:
		return engine.Update{}, ErrHubStopped
	case <-ctx.Done():
		return engine.Update{}, ctx.Err()
	}
}
