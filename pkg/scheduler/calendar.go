package scheduler

import (
	"time"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// Anchor is the month from which 12x36 parity is propagated.
// EvenTeams work even days during the anchor month; every other rotating team works odd days.
type Anchor struct {
	Month     models.YearMonth `json:"month"`
	EvenTeams []models.Team    `json:"even_teams"`
}

// DefaultAnchor is December 2025, when A and D worked even days
var DefaultAnchor = Anchor{
	Month:     models.YearMonth{Year: 2025, Month: time.December},
	EvenTeams: []models.Team{models.TeamA, models.TeamD},
}

// Calendar derives team working days from an anchor
type Calendar struct {
	Anchor Anchor
}

// NewCalendar creates a calendar seeded at anchor
func NewCalendar(anchor Anchor) *Calendar {
	return &Calendar{Anchor: anchor}
}

// DefaultCalendar uses DefaultAnchor
var DefaultCalendar = NewCalendar(DefaultAnchor)

// CalculateDaysForTeam returns the sorted days team works in ym using the default anchor
func CalculateDaysForTeam(team models.Team, ym models.YearMonth, vacation *models.Vacation) []int {
	return DefaultCalendar.DaysForTeam(team, ym, vacation)
}

// DaysForTeam returns the sorted days team works in ym, minus any vacation days
func (c *Calendar) DaysForTeam(team models.Team, ym models.YearMonth, vacation *models.Vacation) []int {
	pattern := team.Pattern()
	workOnEven := false
	if pattern == models.PatternRotation {
		workOnEven = c.EvenDays(ym) == c.isEvenTeam(team)
	}

	n := ym.DaysIn()
	days := make([]int, 0, n)
	for day := 1; day <= n; day++ {
		if !c.scheduled(pattern, ym, day, workOnEven) {
			continue
		}
		if vacation.Contains(day) {
			continue
		}
		days = append(days, day)
	}
	return days
}

// IsScheduled reports whether day is on team's nominal calendar, ignoring vacations
func (c *Calendar) IsScheduled(team models.Team, ym models.YearMonth, day int) bool {
	pattern := team.Pattern()
	workOnEven := false
	if pattern == models.PatternRotation {
		workOnEven = c.EvenDays(ym) == c.isEvenTeam(team)
	}
	return c.scheduled(pattern, ym, day, workOnEven)
}

// EvenDays reports whether the anchor's even teams work even days in ym.
// From the anchor onwards every 31-day month crossed shifts the rotation by one day.
// Months before the anchor keep the anchor's alignment.
func (c *Calendar) EvenDays(ym models.YearMonth) bool {
	even := true
	if ym.Before(c.Anchor.Month) {
		return even
	}
	for m := c.Anchor.Month; m.Before(ym); m = m.Next() {
		if m.DaysIn() == 31 {
			even = !even
		}
	}
	return even
}

func (c *Calendar) scheduled(pattern models.Pattern, ym models.YearMonth, day int, workOnEven bool) bool {
	switch pattern {
	case models.PatternMonSat:
		return ym.Weekday(day) != time.Sunday
	case models.PatternWeekdays:
		wd := ym.Weekday(day)
		return wd != time.Saturday && wd != time.Sunday
	}
	return (day%2 == 0) == workOnEven
}

func (c *Calendar) isEvenTeam(team models.Team) bool {
	team = models.NormalizeTeam(string(team))
	for _, t := range c.Anchor.EvenTeams {
		if models.NormalizeTeam(string(t)) == team {
			return true
		}
	}
	return false
}
