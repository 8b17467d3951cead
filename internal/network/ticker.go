package network

import (
	"context"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
)

// Ticker is the optional autoplay heartbeat: every interval it submits one
// action through the hub, like a player pressing the same button.
type Ticker struct {
	hub      *Hub
	interval time.Duration
	action   engine.ActionID
	logger   *logger.Logger
	ticks    int64
}

// NewTicker creates an autoplay ticker that advances one day per interval.
func NewTicker(hub *Hub, interval time.Duration, log *logger.Logger) *Ticker {
	if log == nil {
		log = logger.Discard()
	}
	return &Ticker{hub: hub, interval: interval, action: engine.ActionAdvanceDay, logger: log}
}

// Start runs until ctx is cancelled. Call in a goroutine. A non-positive
// interval returns immediately.
func (t *Ticker) Start(ctx context.Context) {
	if t.interval <= 0 {
		return
	}
	t.logger.Info("autoplay started", "interval", t.interval, "action", string(t.action))

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("autoplay stopped", "ticks", t.ticks)
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Ticker) tick(ctx context.Context) {
	u, err := t.hub.Submit(ctx, t.action)
	if err != nil {
		if ctx.Err() == nil {
			t.logger.Warn("autoplay tick failed", "err", err)
		}
		return
	}
	t.ticks++
	t.logger.Debug("autoplay tick", "sequence", u.Sequence, "day", u.Snapshot.Day, "year", u.Snapshot.Year)
}
