// Package gateway picks where actions run: the local engine in demo mode or
// the remote simulation service when the user is signed in. Both sides take
// the same action identifiers and report the same Update shape.
package gateway

import (
	"context"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

// Mode names a Driver implementation.
type Mode string

const (
	ModeDemo   Mode = "demo"
	ModeRemote Mode = "remote"
)

// Driver runs actions against one character.
type Driver interface {
	Mode() Mode
	Apply(ctx context.Context, id engine.ActionID) (engine.Update, error)
	Rename(ctx context.Context, name string) (engine.Update, error)
	Snapshot() character.Snapshot
	Events() []string
	// Current reports the state as of the last applied action.
	Current() engine.Update
}

// LocalDriver runs actions on an in-process engine. It never fails on Apply.
type LocalDriver struct {
	engine *engine.Engine
}

func NewLocalDriver(e *engine.Engine) *LocalDriver {
	return &LocalDriver{engine: e}
}

func (d *LocalDriver) Mode() Mode { return ModeDemo }

func (d *LocalDriver) Apply(_ context.Context, id engine.ActionID) (engine.Update, error) {
	return d.engine.Apply(id), nil
}

func (d *LocalDriver) Rename(_ context.Context, name string) (engine.Update, error) {
	return d.engine.Rename(name)
}

func (d *LocalDriver) Snapshot() character.Snapshot { return d.engine.Snapshot() }

func (d *LocalDriver) Events() []string { return d.engine.Events() }

func (d *LocalDriver) Current() engine.Update { return d.engine.Current() }

// Engine exposes the wrapped engine.
func (d *LocalDriver) Engine() *engine.Engine { return d.engine }
