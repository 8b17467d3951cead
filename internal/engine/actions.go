package engine

// ActionID names an operation a player can apply to the character.
type ActionID string

// Time controls.
const (
	ActionAdvanceDay     ActionID = "advance-day"
	ActionAdvanceWeek    ActionID = "advance-week"
	ActionAdvanceMonth   ActionID = "advance-month"
	ActionTriggerEvent   ActionID = "trigger-event"
	ActionSimulateLife   ActionID = "simulate-life"
	ActionResetCharacter ActionID = "reset-character"
)

// Activities.
const (
	ActionWork       ActionID = "action-work"
	ActionStudy      ActionID = "action-study"
	ActionSocialize  ActionID = "action-socialize"
	ActionRest       ActionID = "action-rest"
	ActionFindSpouse ActionID = "action-find-spouse"
	ActionHaveChild  ActionID = "action-have-child"
)

// ActionRename tags updates produced by Engine.Rename. It is not part of the
// action table and Apply treats it as unknown.
const ActionRename ActionID = "rename-character"

var knownActions = []ActionID{
	ActionAdvanceDay,
	ActionAdvanceWeek,
	ActionAdvanceMonth,
	ActionTriggerEvent,
	ActionSimulateLife,
	ActionResetCharacter,
	ActionWork,
	ActionStudy,
	ActionSocialize,
	ActionRest,
	ActionFindSpouse,
	ActionHaveChild,
}

// KnownActions lists every recognised action in menu order.
func KnownActions() []ActionID {
	out := make([]ActionID, len(knownActions))
	copy(out, knownActions)
	return out
}

// Known reports whether id is a recognised action.
func (id ActionID) Known() bool {
	for _, k := range knownActions {
		if k == id {
			return true
		}
	}
	return false
}

// IsTimeControl reports whether id moves the calendar or resets the character.
func (id ActionID) IsTimeControl() bool {
	switch id {
	case ActionAdvanceDay, ActionAdvanceWeek, ActionAdvanceMonth,
		ActionTriggerEvent, ActionSimulateLife, ActionResetCharacter:
		return true
	}
	return false
}
