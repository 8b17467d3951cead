package engine

import (
	"fmt"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/domain/rules"
)

// Messages produced by the action table.
const (
	MsgNewDay         = "A new day begins."
	MsgWeekPassed     = "A week has passed."
	MsgMonthPassed    = "A month has passed."
	MsgLifeSimulated  = "Life simulated to age 80."
	MsgCharacterReset = "Character reset."
	MsgWorked         = "You worked and earned money, but lost energy."
	MsgStudied        = "You studied and gained knowledge."
	MsgSocialized     = "You socialized and improved reputation."
	MsgRested         = "You rested and restored energy and health."
	MsgFoundSpouse    = "You found a spouse!"
	MsgAlreadyMarried = "You already have a spouse."
	MsgHadChild       = "You had a child!"
	MsgNeedSpouse     = "You need a spouse first."
	MsgUnknownAction  = "Unknown action."
	msgYearPassedFmt  = "A year has passed! You are now %d."
	msgCharacterNamed = "Created character: %s"
)

// Result is the outcome of applying one action to a snapshot.
type Result struct {
	Snapshot character.Snapshot
	Message  string
	// RandomEvent is the advance-day event text, empty when none fired.
	RandomEvent string
	// Known is false for identifiers outside the action table.
	Known bool
	// Changed is false when the snapshot was left untouched.
	Changed bool
	// Reset is true when the event log must be cleared to its reset entry.
	Reset bool
}

// Transition applies id to s and returns the next snapshot. s itself is not
// modified. Unknown identifiers are a no-op with MsgUnknownAction.
func Transition(s character.Snapshot, id ActionID, r RandomSource) Result {
	next := s.Clone()
	res := Result{Known: true, Changed: true}

	switch id {
	case ActionAdvanceDay:
		cal, rolled := rules.Step(calendarOf(next))
		setCalendar(&next, cal)
		if rolled {
			res.Message = fmt.Sprintf(msgYearPassedFmt, next.Age)
		} else {
			res.Message = MsgNewDay
		}
		if ev, ok := rollRandomEvent(r); ok {
			ev.apply(&next)
			res.RandomEvent = ev.Text
			res.Message += " " + ev.Text
		}

	case ActionAdvanceWeek:
		setCalendar(&next, rules.Advance(calendarOf(next), rules.DaysPerWeek))
		res.Message = MsgWeekPassed

	case ActionAdvanceMonth:
		setCalendar(&next, rules.Advance(calendarOf(next), rules.DaysPerMonth))
		res.Message = MsgMonthPassed

	case ActionTriggerEvent:
		res.Message = flavorEvents[pick(r, len(flavorEvents))]
		res.Changed = false

	case ActionSimulateLife:
		setCalendar(&next, rules.AdvanceToAge(calendarOf(next), rules.LifeTargetAge))
		res.Message = MsgLifeSimulated

	case ActionResetCharacter:
		next = character.Fresh()
		res.Message = MsgCharacterReset
		res.Reset = true

	case ActionWork:
		next.Resources.Money += 500
		next.Resources.Energy = character.Clamp(next.Resources.Energy - 20)
		next.Skills.Work++
		res.Message = MsgWorked

	case ActionStudy:
		next.Resources.Knowledge += 10
		next.Resources.Energy = character.Clamp(next.Resources.Energy - 15)
		next.Traits.Intelligence++
		res.Message = MsgStudied

	case ActionSocialize:
		next.Resources.Reputation += 5
		next.Resources.Energy = character.Clamp(next.Resources.Energy - 10)
		next.Skills.Social++
		res.Message = MsgSocialized

	case ActionRest:
		next.Resources.Energy = character.Clamp(next.Resources.Energy + 30)
		next.Resources.Health = character.Clamp(next.Resources.Health + 5)
		res.Message = MsgRested

	case ActionFindSpouse:
		if next.Married() {
			res.Message = MsgAlreadyMarried
			res.Changed = false
		} else {
			next.Family.Spouse = character.PlaceholderSpouse
			res.Message = MsgFoundSpouse
		}

	case ActionHaveChild:
		if next.Married() {
			next.Family.Children++
			res.Message = MsgHadChild
		} else {
			res.Message = MsgNeedSpouse
			res.Changed = false
		}

	default:
		res.Message = MsgUnknownAction
		res.Known = false
		res.Changed = false
	}

	if !res.Changed {
		next = s
	}
	res.Snapshot = next
	return res
}

func calendarOf(s character.Snapshot) rules.Calendar {
	return rules.Calendar{Day: s.Day, Year: s.Year, Age: s.Age}
}

func setCalendar(s *character.Snapshot, c rules.Calendar) {
	s.Day, s.Year, s.Age = c.Day, c.Year, c.Age
}
