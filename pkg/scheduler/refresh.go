package scheduler

import "github.com/arnavshah/roster-api-go/pkg/models"

// RefreshPerson returns a copy of person with Days recomputed for ym.
// Days are the team calendar minus vacation minus granted days off.
func (c *Calendar) RefreshPerson(person models.Person, ym models.YearMonth) models.Person {
	out := person
	out.Days = nil
	if person.OnLeave() {
		out.Days = []int{}
		return out
	}
	days := c.DaysForTeam(person.Team, ym, person.Vacation)
	out.Days = make([]int, 0, len(days))
	for _, d := range days {
		if person.HasDayOff(d) {
			continue
		}
		out.Days = append(out.Days, d)
	}
	return out
}

// RefreshRoster recomputes every person's working days for ym. The input is not modified.
func (c *Calendar) RefreshRoster(roster []models.Person, ym models.YearMonth) []models.Person {
	out := make([]models.Person, len(roster))
	for i, p := range roster {
		out[i] = c.RefreshPerson(p, ym)
	}
	return out
}

// RefreshRoster recomputes working days with the default calendar
func RefreshRoster(roster []models.Person, ym models.YearMonth) []models.Person {
	return DefaultCalendar.RefreshRoster(roster, ym)
}
