// Package test holds the soak harness: long seeded runs of random actions
// against a local engine, checking the simulation invariants after every
// step.
package test

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/rules"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/events"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
)

// TestResult captures the outcome of each scenario.
type TestResult struct {
	ScenarioName string
	Input        string
	Expected     string
	Actual       string
	Passed       bool
	Reason       string
}

// SoakTest runs scenarios and collects their results.
type SoakTest struct {
	seed    uint64
	steps   int
	logger  *logger.Logger
	results []TestResult
}

// NewSoakTest creates the harness. steps is the length of the random run.
func NewSoakTest(seed uint64, steps int, log *logger.Logger) *SoakTest {
	if log == nil {
		log = logger.Discard()
	}
	return &SoakTest{seed: seed, steps: steps, logger: log}
}

// RunAll executes every scenario.
func (t *SoakTest) RunAll() {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SOAK TEST: LIFE SIMULATOR INVARIANTS")
	fmt.Println(strings.Repeat("=", 60))

	t.record(t.yearRollover())
	t.record(t.resetToBirth())
	t.record(t.unknownIsNoOp())
	t.record(t.randomWalk())
}

// GetResults returns all test results.
func (t *SoakTest) GetResults() []TestResult {
	return t.results
}

func (t *SoakTest) record(r TestResult) {
	t.results = append(t.results, r)
	verdict := "PASSED"
	if !r.Passed {
		verdict = "FAILED"
	}
	fmt.Printf("\n[%s] %s\n", verdict, r.ScenarioName)
	fmt.Printf("   Input:    %s\n", r.Input)
	fmt.Printf("   Expected: %s\n", r.Expected)
	fmt.Printf("   Actual:   %s\n", r.Actual)
	if r.Reason != "" {
		fmt.Printf("   %s\n", r.Reason)
	}
	t.logger.Info("scenario finished", "scenario", r.ScenarioName, "passed", r.Passed)
}

func noEvents() float64 { return 0.99 }

func (t *SoakTest) yearRollover() TestResult {
	s := character.Fresh()
	s.Day, s.Year, s.Age = 365, 1, 25
	e := engine.NewEngine(engine.Options{Initial: &s, Random: noEvents})
	u := e.Apply(engine.ActionAdvanceDay)

	want := "day=1 year=2 age=26 \"A year has passed! You are now 26.\""
	got := fmt.Sprintf("day=%d year=%d age=%d %q", u.Snapshot.Day, u.Snapshot.Year, u.Snapshot.Age, u.Message)
	return TestResult{
		ScenarioName: "Year rollover",
		Input:        "{day:365, year:1, age:25} + advance-day",
		Expected:     want,
		Actual:       got,
		Passed:       want == got,
	}
}

func (t *SoakTest) resetToBirth() TestResult {
	e := engine.NewEngine(engine.Options{Random: engine.SeededRandom(t.seed)})
	for i := 0; i < 20; i++ {
		e.Apply(engine.ActionWork)
	}
	e.Apply(engine.ActionResetCharacter)

	s, log := e.Snapshot(), e.Events()
	fresh := character.Fresh()
	passed := s.Age == fresh.Age && s.Resources == fresh.Resources &&
		s.Family == fresh.Family && len(log) == 1 && log[0] == events.ResetMessage
	return TestResult{
		ScenarioName: "Reset to birth",
		Input:        "20 x action-work, reset-character",
		Expected:     fmt.Sprintf("fresh character, log [%q]", events.ResetMessage),
		Actual:       fmt.Sprintf("age=%d money=%d log=%q", s.Age, s.Resources.Money, log),
		Passed:       passed,
	}
}

func (t *SoakTest) unknownIsNoOp() TestResult {
	e := engine.NewEngine(engine.Options{Random: noEvents})
	before, logBefore := e.Snapshot(), e.Events()
	u := e.Apply("unknown-xyz")
	after, logAfter := e.Snapshot(), e.Events()

	same := before.Resources == after.Resources && before.Day == after.Day && before.Name == after.Name
	logSame := slices.Equal(logBefore, logAfter)
	return TestResult{
		ScenarioName: "Unknown action",
		Input:        "unknown-xyz",
		Expected:     fmt.Sprintf("unchanged snapshot and log, %q", engine.MsgUnknownAction),
		Actual:       fmt.Sprintf("unchanged=%v log unchanged=%v, %q", same, logSame, u.Message),
		Passed:       same && logSame && u.Message == engine.MsgUnknownAction,
	}
}

// randomWalk applies a seeded random mix of actions and checks every step.
func (t *SoakTest) randomWalk() TestResult {
	r := engine.SeededRandom(t.seed)
	e := engine.NewEngine(engine.Options{Random: r})
	known := engine.KnownActions()

	prev := e.Snapshot()
	for i := 0; i < t.steps; i++ {
		id := known[int(r()*float64(len(known)))%len(known)]
		if id == engine.ActionSimulateLife && r() < 0.9 {
			id = engine.ActionAdvanceDay
		}
		if r() < 0.05 {
			id = "unknown-xyz"
		}
		logBefore := e.Events()
		u := e.Apply(id)
		err := CheckInvariants(prev, u.Snapshot, e.Events(), id)
		if err == nil && !u.Known && !slices.Equal(logBefore, e.Events()) {
			err = fmt.Errorf("unknown action changed the log")
		}
		if err != nil {
			return TestResult{
				ScenarioName: "Random walk",
				Input:        fmt.Sprintf("seed=%d steps=%d", t.seed, t.steps),
				Expected:     "all invariants hold",
				Actual:       fmt.Sprintf("step %d (%s): %v", i, id, err),
				Passed:       false,
				Reason:       "invariant violated",
			}
		}
		prev = u.Snapshot
	}

	final := e.Snapshot()
	return TestResult{
		ScenarioName: "Random walk",
		Input:        fmt.Sprintf("seed=%d steps=%d", t.seed, t.steps),
		Expected:     "all invariants hold",
		Actual:       fmt.Sprintf("ok, ended at age %d day %d year %d", final.Age, final.Day, final.Year),
		Passed:       true,
	}
}

// CheckInvariants validates one transition from prev to next caused by id.
func CheckInvariants(prev, next character.Snapshot, log []string, id engine.ActionID) error {
	res := next.Resources
	switch {
	case res.Health < 0 || res.Health > 100:
		return fmt.Errorf("health %d outside [0,100]", res.Health)
	case res.Energy < 0 || res.Energy > 100:
		return fmt.Errorf("energy %d outside [0,100]", res.Energy)
	case res.Money < 0 || res.Reputation < 0 || res.Knowledge < 0:
		return fmt.Errorf("negative unbounded resource: %+v", res)
	case next.Day < 1 || next.Day > rules.DaysPerYear:
		return fmt.Errorf("day %d outside [1,%d]", next.Day, rules.DaysPerYear)
	case next.Year < 1:
		return fmt.Errorf("year %d below 1", next.Year)
	case len(log) > events.Capacity:
		return fmt.Errorf("event log has %d entries", len(log))
	case next.Family.Children > 0 && next.Family.Spouse == character.NoSpouse && prev.Family.Children != next.Family.Children:
		return fmt.Errorf("child born without a spouse")
	}

	if id == engine.ActionResetCharacter {
		if len(log) != 1 || log[0] != events.ResetMessage {
			return fmt.Errorf("log after reset = %q", log)
		}
		return nil
	}

	switch {
	case next.Age < prev.Age:
		return fmt.Errorf("age went from %d to %d", prev.Age, next.Age)
	case next.Traits.Intelligence < prev.Traits.Intelligence,
		next.Traits.Charisma < prev.Traits.Charisma,
		next.Traits.Resilience < prev.Traits.Resilience:
		return fmt.Errorf("trait decreased: %+v -> %+v", prev.Traits, next.Traits)
	case next.Skills.Work < prev.Skills.Work,
		next.Skills.Social < prev.Skills.Social,
		next.Skills.Healthcare < prev.Skills.Healthcare:
		return fmt.Errorf("skill decreased: %+v -> %+v", prev.Skills, next.Skills)
	case next.Family.Children < prev.Family.Children:
		return fmt.Errorf("children decreased")
	}
	return nil
}
