package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/backend"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/rules"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/events"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
)

// ErrRenameUnsupported is returned by RemoteDriver.Rename; the service has no
// rename endpoint.
var ErrRenameUnsupported = errors.New("rename is not supported in remote mode")

// RemoteDriver forwards actions to the remote service. A failed call leaves
// the last known snapshot and log untouched.
type RemoteDriver struct {
	client      *backend.Client
	characterID string
	snapshot    character.Snapshot
	log         *events.EventLog
	logger      *logger.Logger
	sequence    int64
	now         func() time.Time
}

// NewRemoteDriver wraps an already loaded character record.
func NewRemoteDriver(client *backend.Client, c backend.Character, log *logger.Logger) *RemoteDriver {
	if log == nil {
		log = logger.Discard()
	}
	return &RemoteDriver{
		client:      client,
		characterID: c.ID,
		snapshot:    backend.ToSnapshot(c),
		log:         events.NewEventLog(),
		logger:      log.With("character_id", c.ID),
		now:         time.Now,
	}
}

func (d *RemoteDriver) Mode() Mode { return ModeRemote }

// CharacterID is the remote record being driven.
func (d *RemoteDriver) CharacterID() string { return d.characterID }

// LoadHistory seeds the Event Log from the service's event history.
// Records arrive oldest first.
func (d *RemoteDriver) LoadHistory(ctx context.Context) error {
	recs, err := d.client.GetCharacterEvents(ctx, d.characterID)
	if err != nil {
		d.logger.Error("load history failed", "err", err)
		return err
	}
	fresh := events.NewEventLog()
	for _, r := range recs {
		fresh.Record(r.Message)
	}
	d.log = fresh
	return nil
}

// Apply maps the action identifier onto the matching endpoint.
func (d *RemoteDriver) Apply(ctx context.Context, id engine.ActionID) (engine.Update, error) {
	var (
		c     *backend.Character
		msgs  []string
		reset bool
		err   error
	)

	switch id {
	case engine.ActionAdvanceDay:
		c, msgs, err = d.advance(ctx, 1)
	case engine.ActionAdvanceWeek:
		c, msgs, err = d.advance(ctx, rules.DaysPerWeek)
	case engine.ActionAdvanceMonth:
		c, msgs, err = d.advance(ctx, rules.DaysPerMonth)
	case engine.ActionTriggerEvent:
		c, msgs, err = unpack(d.client.TriggerEvent(ctx, d.characterID, ""))
	case engine.ActionSimulateLife:
		c, msgs, err = unpack(d.client.SimulateLife(ctx, d.characterID))
	case engine.ActionResetCharacter:
		c, err = d.client.ResetCharacter(ctx, d.characterID)
		msgs, reset = []string{engine.MsgCharacterReset}, true
	default:
		c, err = d.client.PerformAction(ctx, d.characterID, string(id))
		msgs = []string{fmt.Sprintf("Performed %s.", id)}
	}

	if err != nil {
		d.logger.Error("remote action failed", "action", string(id), "err", err)
		return d.current(id), fmt.Errorf("%s: %w", id, err)
	}

	d.snapshot = backend.ToSnapshot(*c)
	if reset {
		d.log.Reset()
	} else {
		for _, m := range msgs {
			d.log.Record(m)
		}
	}
	d.sequence++
	u := d.current(id)
	u.Sequence = d.sequence
	u.Message = strings.Join(msgs, " ")
	u.Known = id.Known()
	d.logger.Event(string(id), d.snapshot.Name, u.Message)
	return u, nil
}

func (d *RemoteDriver) Rename(context.Context, string) (engine.Update, error) {
	return d.current(engine.ActionRename), ErrRenameUnsupported
}

func (d *RemoteDriver) Snapshot() character.Snapshot { return d.snapshot.Clone() }

func (d *RemoteDriver) Events() []string { return d.log.Entries() }

func (d *RemoteDriver) Current() engine.Update { return d.current("") }

func (d *RemoteDriver) advance(ctx context.Context, days int) (*backend.Character, []string, error) {
	return unpack(d.client.AdvanceTime(ctx, d.characterID, days))
}

func (d *RemoteDriver) current(id engine.ActionID) engine.Update {
	return engine.Update{
		Sequence: d.sequence,
		Action:   id,
		Known:    true,
		Snapshot: d.Snapshot(),
		Events:   d.Events(),
		At:       d.now(),
	}
}

func unpack(res *backend.AdvanceResult, err error) (*backend.Character, []string, error) {
	if err != nil {
		return nil, nil, err
	}
	return &res.Character, res.Messages(), nil
}
