package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

func without(days []int, drop ...int) []int {
	skip := make(map[int]bool)
	for _, d := range drop {
		skip[d] = true
	}
	var out []int
	for _, d := range days {
		if !skip[d] {
			out = append(out, d)
		}
	}
	return out
}

// northTeamA has four members on team A at NORTE in December 2025:
// day 4 keeps two present, day 6 keeps one, day 8 keeps one plus a reinforcement.
func northTeamA() []models.Person {
	even := evenDays(31)
	return []models.Person{
		{ID: "m1", Name: "M1", Team: models.TeamA, Site: "NORTE", Days: even, Vacation: &models.Vacation{Start: 4, End: 8}},
		{ID: "m2", Name: "M2", Team: models.TeamA, Site: "NORTE", Days: even, Coverages: []models.Coverage{
			{Day: 4, DestinationSite: "SUL", Kind: models.CoverageReassignment},
			{Day: 6, DestinationSite: "SUL", Kind: models.CoverageReassignment},
			{Day: 8, DestinationSite: "SUL", Kind: models.CoverageReassignment},
		}},
		{ID: "m3", Name: "M3", Team: models.TeamA, Site: "NORTE", Days: without(even, 6, 8)},
		{ID: "m4", Name: "M4", Team: models.TeamA, Site: "NORTE", Days: even},
		{ID: "b1", Name: "B1", Team: models.TeamB, Site: "SUL", Days: oddDays(31), Coverages: []models.Coverage{
			{Day: 8, DestinationSite: "norte", Kind: models.CoverageOvertime, OriginSite: "SUL"},
		}},
		{ID: "x1", Name: "X1", Team: models.TeamA, Site: models.OnLeaveSite},
	}
}

func TestAnalyzeConflicts(t *testing.T) {
	got := AnalyzeConflicts(northTeamA(), ym(t, 202512), "")
	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, 6, c.Day)
	assert.Equal(t, "NORTE", c.Site)
	assert.Equal(t, models.TeamA, c.Team)
	assert.Equal(t, 1, c.Effective)
	assert.Equal(t, 4, c.Nominal)
	assert.Contains(t, c.Message, "1/4")
}

func TestAnalyzeConflicts_TeamFilter(t *testing.T) {
	roster := northTeamA()
	assert.Empty(t, AnalyzeConflicts(roster, ym(t, 202512), models.TeamB))
	assert.Len(t, AnalyzeConflicts(roster, ym(t, 202512), "a"), 1)
}

func TestAnalyzeConflicts_SkipsUnscheduledDays(t *testing.T) {
	// nobody has days listed, but only A's calendar days can conflict
	roster := []models.Person{
		{ID: "1", Team: models.TeamA, Site: "NORTE"},
		{ID: "2", Team: models.TeamA, Site: "NORTE"},
	}
	got := AnalyzeConflicts(roster, ym(t, 202601), "")
	require.Len(t, got, 16)
	for _, c := range got {
		assert.Equal(t, 1, c.Day%2, "day %d", c.Day)
	}
}

func TestAnalyzeConflicts_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeConflicts(nil, ym(t, 202512), ""))
	assert.Empty(t, AnalyzeConflicts([]models.Person{{Site: models.OnLeaveSite, Team: models.TeamA}}, ym(t, 202512), ""))
}

func TestAnalyzeConflicts_SortedByDaySiteTeam(t *testing.T) {
	roster := []models.Person{
		{ID: "1", Team: models.TeamB, Site: "SUL"},
		{ID: "2", Team: models.TeamE2, Site: "NORTE"},
		{ID: "3", Team: models.TeamB, Site: "NORTE"},
	}
	got := AnalyzeConflicts(roster, ym(t, 202512), "")
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Day == cur.Day {
			if prev.Site == cur.Site {
				assert.Less(t, string(prev.Team), string(cur.Team))
			} else {
				assert.Less(t, prev.Site, cur.Site)
			}
		} else {
			assert.Less(t, prev.Day, cur.Day)
		}
	}
}

func TestEffectiveHeadcount_CountsEachPersonOnce(t *testing.T) {
	roster := []models.Person{
		{ID: "1", Team: models.TeamA, Site: "NORTE", Days: []int{2}, Coverages: []models.Coverage{
			{Day: 2, DestinationSite: "NORTE", DestinationPost: "PORTARIA"},
			{Day: 2, DestinationSite: "NORTE", DestinationPost: "CATRACA"},
		}},
		{ID: "2", Team: models.TeamC, Site: "SUL", Coverages: []models.Coverage{
			{Day: 2, DestinationSite: "NORTE"},
			{Day: 2, DestinationSite: "NORTE"},
		}},
	}
	groups := groupBySiteTeam(roster)
	require.Len(t, groups, 2)
	assert.Equal(t, "NORTE", groups[0].site)
	assert.Equal(t, 2, effectiveHeadcount(roster, groups[0], 2))
}

func TestMinimumStaff(t *testing.T) {
	assert.Equal(t, 0, MinimumStaff(0))
	assert.Equal(t, 1, MinimumStaff(1))
	assert.Equal(t, 2, MinimumStaff(3))
	assert.Equal(t, 2, MinimumStaff(4))
	assert.Equal(t, 3, MinimumStaff(5))
}
