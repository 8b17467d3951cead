package backend

import (
	"math"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/rules"
)

// ToSnapshot converts a wire record into the local snapshot shape. The
// service counts age in days; day and year are derived from it.
func ToSnapshot(c Character) character.Snapshot {
	days := c.AgeDays
	if days < 0 {
		days = 0
	}

	spouse := c.SpouseID
	if spouse == "" {
		spouse = character.NoSpouse
	}

	s := character.Snapshot{
		Name:  c.Name,
		Age:   days / rules.DaysPerYear,
		Stage: c.Stage,
		Resources: character.Resources{
			Health:     character.Clamp(stat(c.Resources, "health")),
			Energy:     character.Clamp(stat(c.Resources, "energy")),
			Money:      stat(c.Resources, "money"),
			Reputation: stat(c.Resources, "reputation"),
			Knowledge:  stat(c.Resources, "knowledge"),
		},
		Traits: character.Traits{
			Intelligence: stat(c.Traits, "intelligence"),
			Charisma:     stat(c.Traits, "charisma"),
			Resilience:   stat(c.Traits, "resilience"),
		},
		Skills: character.Skills{
			Work:       stat(c.Skills, "work"),
			Social:     stat(c.Skills, "social"),
			Healthcare: stat(c.Skills, "healthcare"),
		},
		Family: character.Family{
			Spouse:   spouse,
			Children: len(c.ChildrenIDs),
			Legacy:   int(math.Round(c.LegacyScore)),
		},
		CompletedQuests: append([]string{}, c.CompletedQuests...),
		Day:             days%rules.DaysPerYear + 1,
		Year:            days/rules.DaysPerYear + 1,
	}
	return s
}

// stat reads a rounded value, treating a missing key as zero.
func stat(m map[string]float64, key string) int {
	return int(math.Round(m[key]))
}
