// Package cli implements the terminal player: a line-oriented loop that
// feeds action identifiers to a gateway.Driver and prints the outcome.
package cli

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/MRamiBalles/LifeSimulator/internal/engine"
)

// aliases are short names accepted in place of the full identifier.
var aliases = map[string]engine.ActionID{
	"day":       engine.ActionAdvanceDay,
	"week":      engine.ActionAdvanceWeek,
	"month":     engine.ActionAdvanceMonth,
	"event":     engine.ActionTriggerEvent,
	"life":      engine.ActionSimulateLife,
	"reset":     engine.ActionResetCharacter,
	"work":      engine.ActionWork,
	"study":     engine.ActionStudy,
	"socialize": engine.ActionSocialize,
	"rest":      engine.ActionRest,
	"marry":     engine.ActionFindSpouse,
	"child":     engine.ActionHaveChild,
}

// Resolve maps an alias to its action identifier. Anything else is returned
// unchanged so the engine decides what it means.
func Resolve(input string) engine.ActionID {
	in := strings.ToLower(strings.TrimSpace(input))
	if id, ok := aliases[in]; ok {
		return id
	}
	return engine.ActionID(in)
}

// Suggest returns the closest known identifier or alias to input, if any is
// near enough to be a likely typo.
func Suggest(input string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if len(in) < 3 {
		return "", false
	}

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	consider := func(name string) {
		dist := levenshtein.ComputeDistance(in, name)
		if dist <= levenshteinLimit(len(name)) {
			cands = append(cands, candidate{name, dist})
		}
	}
	for _, id := range engine.KnownActions() {
		consider(string(id))
	}
	for a := range aliases {
		consider(a)
	}
	if len(cands) == 0 {
		return "", false
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].name, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
