package engine

import "github.com/MRamiBalles/LifeSimulator/internal/domain/character"

// RandomEventChance is the probability that advance-day also triggers a
// random event.
const RandomEventChance = 0.3

// RandomEvent is a day event with a side effect on the character.
type RandomEvent struct {
	Text  string
	apply func(s *character.Snapshot)
}

var randomEvents = []RandomEvent{
	{
		Text:  "You found $100 on the street!",
		apply: func(s *character.Snapshot) { s.Resources.Money += 100 },
	},
	{
		Text:  "You caught a cold and lost some health.",
		apply: func(s *character.Snapshot) { s.Resources.Health = character.Clamp(s.Resources.Health - 10) },
	},
	{
		Text:  "A friend invited you to a party.",
		apply: func(*character.Snapshot) {},
	},
	{
		Text:  "You had a productive day at work.",
		apply: func(s *character.Snapshot) { s.Resources.Money += 200 },
	},
	{
		Text:  "You learned something new!",
		apply: func(s *character.Snapshot) { s.Resources.Knowledge += 5 },
	},
}

// flavorEvents are display-only outcomes of trigger-event.
var flavorEvents = []string{
	"Birthday party!",
	"Job promotion!",
	"Illness.",
	"New friend.",
	"Financial windfall!",
}

// RandomEvents returns the advance-day event table in selection order.
func RandomEvents() []RandomEvent {
	out := make([]RandomEvent, len(randomEvents))
	copy(out, randomEvents)
	return out
}

// FlavorEvents returns the trigger-event strings in selection order.
func FlavorEvents() []string {
	out := make([]string, len(flavorEvents))
	copy(out, flavorEvents)
	return out
}

// rollRandomEvent applies the 30% gate and, when it passes, a uniform pick.
// It draws twice when the gate passes and once otherwise.
func rollRandomEvent(r RandomSource) (RandomEvent, bool) {
	if r() >= RandomEventChance {
		return RandomEvent{}, false
	}
	return randomEvents[pick(r, len(randomEvents))], true
}
