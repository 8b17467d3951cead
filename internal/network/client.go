package network

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Upper bound on one action round trip through the hub.
	submitTimeout = 30 * time.Second
)

// PlayerAction is an incoming command from the frontend. Name is only read
// for rename-character.
type PlayerAction struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}

// ErrorFrame is sent to a single client when its command fails.
type ErrorFrame struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
}

// Client is one WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	remote         string
	minInterval    time.Duration
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	var interval time.Duration
	if n := hub.tuning.MaxActionsPerSecond; n > 0 {
		interval = time.Second / time.Duration(n)
	}
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, hub.tuning.ClientSendBuffer),
		remote:      conn.RemoteAddr().String(),
		minInterval: interval,
	}
}

// ReadPump pumps commands from the websocket connection to the hub.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "remote", c.remote, "err", err)
				c.hub.metrics.RecordWSError()
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Warn("failed to parse PlayerAction", "remote", c.remote, "err", err)
			c.reject("malformed command", "")
			continue
		}

		c.handlePlayerAction(ctx, action)
	}
}

func (c *Client) handlePlayerAction(ctx context.Context, action PlayerAction) {
	if c.minInterval > 0 && time.Since(c.lastActionTime) < c.minInterval {
		c.hub.metrics.RecordWSRateLimited()
		c.hub.logger.Warn("rate limit exceeded", "remote", c.remote, "action", action.Action)
		c.reject("rate limited", action.Action)
		return
	}
	c.lastActionTime = time.Now()

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var err error
	if engine.ActionID(action.Action) == engine.ActionRename {
		_, err = c.hub.Rename(ctx, action.Name)
	} else {
		// Unknown identifiers still go to the driver; the engine answers them.
		_, err = c.hub.Submit(ctx, engine.ActionID(action.Action))
	}
	if err != nil {
		c.reject(err.Error(), action.Action)
	}
}

// reject queues an error frame for this client only. The hub owns send, so
// the frame goes through it.
func (c *Client) reject(msg, action string) {
	payload, _ := json.Marshal(ErrorFrame{Error: msg, Action: action})
	select {
	case c.hub.direct <- directMessage{client: c, payload: payload}:
	case <-c.hub.done:
	default:
		c.hub.metrics.RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *Hub) ServeWS(ctx context.Context, allowOrigin func(string) bool) http.HandlerFunc {
	up := upgrader
	up.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowOrigin == nil || allowOrigin(origin)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if max := h.tuning.MaxClients; max > 0 && h.ClientCount() >= max {
			http.Error(w, "too many clients", http.StatusServiceUnavailable)
			return
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("failed to upgrade websocket connection", "err", err)
			h.metrics.RecordWSError()
			return
		}

		client := NewClient(h, conn)
		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		// Allow collection of memory referenced by the caller by doing all
		// work in new goroutines.
		go client.WritePump()
		go client.ReadPump(ctx)
	}
}
