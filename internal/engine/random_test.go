package engine

import (
	"testing"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
)

func TestSeededRandomDeterministic(t *testing.T) {
	a := SeededRandom(12345)
	b := SeededRandom(12345)

	for i := 0; i < 20; i++ {
		va, vb := a(), b()
		if va != vb {
			t.Fatalf("expected deterministic sequence, mismatch at %d: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %v outside [0,1)", va)
		}
	}
}

func TestSeedWordChangesWithSalt(t *testing.T) {
	if seedWord(99, "a") == seedWord(99, "b") {
		t.Fatalf("expected different seed words for different salts")
	}
}

func TestPickStaysInRange(t *testing.T) {
	for _, draw := range []float64{-0.5, 0, 0.19, 0.2, 0.999999, 1, 3} {
		got := pick(func() float64 { return draw }, 5)
		if got < 0 || got > 4 {
			t.Errorf("pick(%v) = %d", draw, got)
		}
	}
	if got := pick(func() float64 { return 0.999999 }, 5); got != 4 {
		t.Errorf("top of range should select the last entry, got %d", got)
	}
}

func TestTransitionDoesNotModifyInput(t *testing.T) {
	s := character.Demo()
	before := s.Clone()

	res := Transition(s, ActionResetCharacter, noEvents())
	if !res.Reset || res.Snapshot.Age != 18 {
		t.Fatalf("unexpected result %+v", res)
	}
	if s.Age != before.Age || s.CompletedQuests[0] != before.CompletedQuests[0] {
		t.Errorf("input snapshot was modified")
	}

	res = Transition(s, ActionWork, noEvents())
	if s.Resources.Money != before.Resources.Money || res.Snapshot.Resources.Money != before.Resources.Money+500 {
		t.Errorf("work: input=%d result=%d", s.Resources.Money, res.Snapshot.Resources.Money)
	}
}

func TestKnownActions(t *testing.T) {
	all := KnownActions()
	if len(all) != 12 {
		t.Fatalf("expected 12 actions, got %d", len(all))
	}
	for _, id := range all {
		if !id.Known() {
			t.Errorf("%s should be known", id)
		}
	}
	if ActionID("action-fly").Known() {
		t.Errorf("unexpected known action")
	}
	if !ActionSimulateLife.IsTimeControl() || ActionWork.IsTimeControl() {
		t.Errorf("time control classification is wrong")
	}
}
