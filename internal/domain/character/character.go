// Package character defines the simulated character state.
// This package is PURE and must NOT import any infrastructure packages.
package character

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"
)

// NoSpouse is the sentinel spouse name for an unmarried character.
const NoSpouse = "None"

// PlaceholderSpouse is the name given to a newly found spouse.
const PlaceholderSpouse = "New Spouse"

// MaxNameLength bounds user-supplied names, counted in runes.
const MaxNameLength = 20

// ErrInvalidName is returned for names that are empty or too long.
var ErrInvalidName = errors.New("character name must be 1-20 characters")

// Resources are the spendable and vital pools. Health and Energy are 0-100;
// the rest grow without a ceiling.
type Resources struct {
	Health     int `json:"health"`
	Energy     int `json:"energy"`
	Money      int `json:"money"`
	Reputation int `json:"reputation"`
	Knowledge  int `json:"knowledge"`
}

// Traits are innate attributes. They only go up during normal play.
type Traits struct {
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
	Resilience   int `json:"resilience"`
}

// Skills are trained attributes. They only go up during normal play.
type Skills struct {
	Work       int `json:"work"`
	Social     int `json:"social"`
	Healthcare int `json:"healthcare"`
}

// Family tracks marriage and offspring.
type Family struct {
	Spouse   string `json:"spouse"` // NoSpouse when unmarried
	Children int    `json:"children"`
	Legacy   int    `json:"legacy"`
}

// Snapshot is the complete simulated state at one instant.
type Snapshot struct {
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Stage           string    `json:"stage"`
	Resources       Resources `json:"resources"`
	Traits          Traits    `json:"traits"`
	Skills          Skills    `json:"skills"`
	Family          Family    `json:"family"`
	CompletedQuests []string  `json:"completed_quests"`
	Day             int       `json:"day"`  // 1-365
	Year            int       `json:"year"` // starts at 1
}

// Demo returns the boot-time configuration shown to visitors who are not
// signed in. It is a mid-life preview, not a fresh start.
func Demo() Snapshot {
	return Snapshot{
		Name:  "Demo Character",
		Age:   25,
		Stage: "Adult",
		Resources: Resources{
			Health:     85,
			Energy:     70,
			Money:      15000,
			Reputation: 45,
			Knowledge:  120,
		},
		Traits: Traits{Intelligence: 35, Charisma: 25, Resilience: 40},
		Skills: Skills{Work: 15, Social: 20, Healthcare: 10},
		Family: Family{Spouse: "Demo Spouse", Children: 2, Legacy: 1250},
		CompletedQuests: []string{
			"Complete Tutorial",
			"Reach Age 18",
			"Get First Job",
		},
		Day:  1,
		Year: 1,
	}
}

// DemoWelcome is the Event Log content that accompanies Demo.
// Most recent first.
func DemoWelcome() []string {
	return []string{
		"Welcome to Life Simulator! This is a demo preview.",
		"You can explore the interface and see how the game works.",
		"Login with Google to create your own character and start playing!",
	}
}

// Fresh returns the configuration a character is reset to.
// It intentionally differs from Demo (age 18, empty family and quests).
func Fresh() Snapshot {
	return Snapshot{
		Name:  "Demo Character",
		Age:   18,
		Stage: "Young Adult",
		Resources: Resources{
			Health:     100,
			Energy:     100,
			Money:      1000,
			Reputation: 10,
			Knowledge:  50,
		},
		Traits:          Traits{Intelligence: 10, Charisma: 10, Resilience: 10},
		Skills:          Skills{},
		Family:          Family{Spouse: NoSpouse},
		CompletedQuests: []string{},
		Day:             1,
		Year:            1,
	}
}

// Clone returns a deep copy; the quest slice is not shared.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.CompletedQuests != nil {
		c.CompletedQuests = slices.Clone(s.CompletedQuests)
	}
	return c
}

// Married reports whether the character has a spouse.
func (s Snapshot) Married() bool {
	return s.Family.Spouse != NoSpouse
}

// Clamp bounds a vital (health or energy) to [0,100].
func Clamp(v int) int {
	return max(0, min(100, v))
}

// ValidateName trims the name and checks its length.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
