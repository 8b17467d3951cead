package character

import (
	"errors"
	"strings"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := map[int]int{-30: 0, 0: 0, 42: 42, 100: 100, 130: 100}
	for in, want := range cases {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDemoAndFreshStayDistinct(t *testing.T) {
	demo, fresh := Demo(), Fresh()

	if demo.Age != 25 || fresh.Age != 18 {
		t.Fatalf("expected ages 25/18, got %d/%d", demo.Age, fresh.Age)
	}
	want := Resources{Health: 100, Energy: 100, Money: 1000, Reputation: 10, Knowledge: 50}
	if fresh.Resources != want {
		t.Errorf("fresh resources = %+v, want %+v", fresh.Resources, want)
	}
	if fresh.Married() || fresh.Family.Children != 0 || fresh.Family.Legacy != 0 {
		t.Errorf("fresh family should be empty, got %+v", fresh.Family)
	}
	if len(fresh.CompletedQuests) != 0 {
		t.Errorf("fresh quests should be empty, got %v", fresh.CompletedQuests)
	}
	if !demo.Married() {
		t.Errorf("demo character should start married")
	}
}

func TestCloneDoesNotShareQuests(t *testing.T) {
	a := Demo()
	b := a.Clone()
	b.CompletedQuests[0] = "changed"
	if a.CompletedQuests[0] == "changed" {
		t.Fatalf("clone aliases the quest slice")
	}
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName("  Ada  ")
	if err != nil || got != "Ada" {
		t.Fatalf("ValidateName trimmed = %q, %v", got, err)
	}

	if _, err := ValidateName(strings.Repeat("é", MaxNameLength)); err != nil {
		t.Errorf("20 runes should be accepted, got %v", err)
	}

	for _, bad := range []string{"", "   ", strings.Repeat("x", MaxNameLength+1)} {
		if _, err := ValidateName(bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) err = %v, want ErrInvalidName", bad, err)
		}
	}
}
