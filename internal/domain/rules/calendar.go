// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

const (
	// DaysPerYear is the length of a simulated year.
	DaysPerYear = 365
	// DaysPerWeek is how far advance-week moves the calendar.
	DaysPerWeek = 7
	// DaysPerMonth is how far advance-month moves the calendar.
	DaysPerMonth = 30
	// LifeTargetAge is where simulate-life stops.
	LifeTargetAge = 80
)

// Calendar is the date part of a snapshot.
type Calendar struct {
	Day  int
	Year int
	Age  int
}

// Step advances the calendar by one day. When the day runs past the end of
// the year it wraps to 1 and both year and age go up by one; rolled reports
// whether that happened.
func Step(c Calendar) (next Calendar, rolled bool) {
	c.Day++
	if c.Day > DaysPerYear {
		c.Day = 1
		c.Year++
		c.Age++
		return c, true
	}
	return c, false
}

// Advance applies Step n times.
func Advance(c Calendar, n int) Calendar {
	for i := 0; i < n; i++ {
		c, _ = Step(c)
	}
	return c
}

// AdvanceToAge steps until the age reaches target. A calendar already at or
// past the target is returned unchanged.
func AdvanceToAge(c Calendar, target int) Calendar {
	for c.Age < target {
		c, _ = Step(c)
	}
	return c
}
