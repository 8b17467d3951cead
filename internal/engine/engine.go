// Package engine contains the client-local life simulation.
//
// The Engine owns exactly one character snapshot and its Event Log. It is
// single-threaded: callers must not invoke it concurrently. The demo server
// guarantees this by routing every call through the network Hub goroutine.
package engine

import (
	"fmt"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/events"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/metrics"
)

// Update is what observers see after every change. It never aliases engine
// state.
type Update struct {
	Sequence    int64              `json:"sequence"`
	Action      ActionID           `json:"action"`
	Message     string             `json:"message"`
	RandomEvent string             `json:"random_event,omitempty"`
	Known       bool               `json:"known"`
	Snapshot    character.Snapshot `json:"snapshot"`
	Events      []string           `json:"events"`
	At          time.Time          `json:"at"`
}

// Record is the journal view of one applied action.
type Record struct {
	Sequence int64
	Action   ActionID
	Message  string
	Day      int
	Year     int
	Age      int
	At       time.Time
}

// Persister durably stores applied actions. Failures are logged and never
// affect the simulation.
type Persister interface {
	Append(rec Record) error
}

// Options configures a new Engine. Zero values pick the defaults.
type Options struct {
	Random    RandomSource
	Logger    *logger.Logger
	Metrics   *metrics.Collector
	Persister Persister
	// Initial overrides the boot snapshot. When nil the Demo configuration
	// and its welcome messages are used.
	Initial *character.Snapshot
	Now     func() time.Time
}

// Engine is the simulation state machine.
type Engine struct {
	snapshot  character.Snapshot
	eventLog  *events.EventLog
	random    RandomSource
	logger    *logger.Logger
	metrics   *metrics.Collector
	persister Persister
	now       func() time.Time

	sequence  int64
	observers map[int]func(Update)
	nextObs   int
}

// NewEngine boots an engine with the Demo configuration unless overridden.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		random:    opts.Random,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		persister: opts.Persister,
		now:       opts.Now,
		observers: make(map[int]func(Update)),
	}
	if e.random == nil {
		e.random = DefaultRandom()
	}
	if e.logger == nil {
		e.logger = logger.Discard()
	}
	if e.now == nil {
		e.now = time.Now
	}

	if opts.Initial != nil {
		e.snapshot = opts.Initial.Clone()
		e.eventLog = events.NewEventLog()
	} else {
		e.snapshot = character.Demo()
		e.eventLog = events.NewEventLog(character.DemoWelcome()...)
	}
	return e
}

// Apply runs one action and returns the resulting update. It never fails:
// unknown identifiers produce MsgUnknownAction and leave the state and the
// Event Log alone.
func (e *Engine) Apply(id ActionID) Update {
	start := time.Now()
	res := Transition(e.snapshot, id, e.random)
	e.snapshot = res.Snapshot

	// No-op branches and unknown identifiers still answer with a message
	// but leave the Event Log alone.
	switch {
	case res.Reset:
		e.eventLog.Reset()
	case res.Changed || id == ActionTriggerEvent:
		e.eventLog.Record(res.Message)
	}

	if !res.Known {
		e.logger.Warn("unknown action", "action", string(id))
	} else {
		e.logger.Event(string(id), e.snapshot.Name, res.Message)
	}
	if e.metrics != nil {
		e.metrics.RecordAction(time.Since(start), res.Known, res.RandomEvent != "")
	}

	u := e.publish(id, res.Message, res.RandomEvent, res.Known)
	e.persist(u)
	return u
}

// Rename sets a user-supplied name and records it in the Event Log.
func (e *Engine) Rename(name string) (Update, error) {
	clean, err := character.ValidateName(name)
	if err != nil {
		return Update{}, fmt.Errorf("rename %q: %w", name, err)
	}
	e.snapshot.Name = clean
	msg := fmt.Sprintf(msgCharacterNamed, clean)
	e.eventLog.Record(msg)
	e.logger.Event("rename", clean, msg)
	return e.publish(ActionRename, msg, "", true), nil
}

// Snapshot returns a copy of the current character.
func (e *Engine) Snapshot() character.Snapshot {
	return e.snapshot.Clone()
}

// Events returns the Event Log, newest first.
func (e *Engine) Events() []string {
	return e.eventLog.Entries()
}

// Current returns the state as an Update without applying anything.
func (e *Engine) Current() Update {
	return Update{
		Sequence: e.sequence,
		Known:    true,
		Snapshot: e.Snapshot(),
		Events:   e.Events(),
		At:       e.now(),
	}
}

// Subscribe registers fn to receive every Update. Observers run
// synchronously on the caller's goroutine and must not call back into the
// engine. The returned func removes the observer.
func (e *Engine) Subscribe(fn func(Update)) (unsubscribe func()) {
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return func() { delete(e.observers, id) }
}

func (e *Engine) publish(id ActionID, msg, randomEvent string, known bool) Update {
	e.sequence++
	u := Update{
		Sequence:    e.sequence,
		Action:      id,
		Message:     msg,
		RandomEvent: randomEvent,
		Known:       known,
		Snapshot:    e.Snapshot(),
		Events:      e.Events(),
		At:          e.now(),
	}
	for _, fn := range e.observers {
		fn(cloneUpdate(u))
	}
	return u
}

func (e *Engine) persist(u Update) {
	if e.persister == nil {
		return
	}
	rec := Record{
		Sequence: u.Sequence,
		Action:   u.Action,
		Message:  u.Message,
		Day:      u.Snapshot.Day,
		Year:     u.Snapshot.Year,
		Age:      u.Snapshot.Age,
		At:       u.At,
	}
	start := time.Now()
	err := e.persister.Append(rec)
	if e.metrics != nil {
		e.metrics.RecordJournalWrite(time.Since(start), err)
	}
	if err != nil {
		e.logger.Error("journal append failed", "action", string(u.Action), "err", err)
	}
}

func cloneUpdate(u Update) Update {
	u.Snapshot = u.Snapshot.Clone()
	u.Events = append([]string(nil), u.Events...)
	return u
}
