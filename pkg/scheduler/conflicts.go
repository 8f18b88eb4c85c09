package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// MinimumStaffRatio is the share of a group's nominal size that must be present
const MinimumStaffRatio = 0.5

type groupKey struct {
	site string
	team models.Team
}

type group struct {
	site    string
	team    models.Team
	members []models.Person
}

// MinimumStaff returns ceil(nominal * MinimumStaffRatio)
func MinimumStaff(nominal int) int {
	return int(math.Ceil(float64(nominal) * MinimumStaffRatio))
}

// groupBySiteTeam groups everyone not on leave by (site, team), sorted by site then team
func groupBySiteTeam(roster []models.Person) []*group {
	byKey := make(map[groupKey]*group)
	var groups []*group
	for _, p := range roster {
		if p.OnLeave() {
			continue
		}
		team := models.NormalizeTeam(string(p.Team))
		key := groupKey{site: siteKey(p.Site), team: team}
		g, ok := byKey[key]
		if !ok {
			g = &group{site: strings.TrimSpace(p.Site), team: team}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, p)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].site != groups[j].site {
			return groups[i].site < groups[j].site
		}
		return groups[i].team < groups[j].team
	})
	return groups
}

// AnalyzeConflicts scans ym and flags every (day, site, team) whose effective headcount
// falls below MinimumStaff of its nominal size. An empty teamFilter analyzes all teams.
func AnalyzeConflicts(roster []models.Person, ym models.YearMonth, teamFilter models.Team) []models.Conflict {
	return DefaultCalendar.AnalyzeConflicts(roster, ym, teamFilter)
}

// AnalyzeConflicts is the calendar-aware form of the package function
func (c *Calendar) AnalyzeConflicts(roster []models.Person, ym models.YearMonth, teamFilter models.Team) []models.Conflict {
	teamFilter = models.NormalizeTeam(string(teamFilter))
	var groups []*group
	for _, g := range groupBySiteTeam(roster) {
		if teamFilter != "" && g.team != teamFilter {
			continue
		}
		groups = append(groups, g)
	}

	var conflicts []models.Conflict
	for day := 1; day <= ym.DaysIn(); day++ {
		for _, g := range groups {
			if !c.IsScheduled(g.team, ym, day) {
				continue
			}
			nominal := len(g.members)
			effective := effectiveHeadcount(roster, g, day)
			if nominal > 0 && effective < MinimumStaff(nominal) {
				conflicts = append(conflicts, models.Conflict{
					Day:       day,
					Site:      g.site,
					Team:      g.team,
					Effective: effective,
					Nominal:   nominal,
					Message: fmt.Sprintf("Efetivo abaixo do mínimo: %d/%d na equipe %s (%s), dia %d",
						effective, nominal, g.team, g.site, day),
				})
			}
		}
	}
	return conflicts
}

func effectiveHeadcount(roster []models.Person, g *group, day int) int {
	counted := make(map[string]bool)
	n := 0
	for _, p := range g.members {
		if !p.WorksOn(day) || p.OnVacation(day) || coveringElsewhere(p, day) {
			continue
		}
		counted[personKey(p)] = true
		n++
	}
	// Reinforcements from any team physically occupy the site
	for _, p := range roster {
		if counted[personKey(p)] {
			continue
		}
		for _, cov := range p.CoveragesOn(day) {
			if models.SameSite(cov.DestinationSite, g.site) {
				counted[personKey(p)] = true
				n++
				break
			}
		}
	}
	return n
}

func coveringElsewhere(p models.Person, day int) bool {
	for _, cov := range p.CoveragesOn(day) {
		if !models.SameSite(cov.DestinationSite, p.Site) {
			return true
		}
	}
	return false
}

func personKey(p models.Person) string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name + "|" + p.Site
}

func siteKey(site string) string {
	return strings.ToUpper(strings.TrimSpace(site))
}
