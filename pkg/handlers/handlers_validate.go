package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// ValidateInput checks a roster before it is analyzed or stored
func (h *Handler) ValidateInput(c *gin.Context) {
	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if !input.Month.IsValid() {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "month is required"})
		return
	}

	if len(input.People) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one person is required",
		})
		return
	}

	var problems []string
	ids := make(map[string]bool)
	for _, p := range input.People {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("%s: missing id", p.Name))
		} else if ids[p.ID] {
			problems = append(problems, "Duplicate person ID: "+p.ID)
		}
		ids[p.ID] = true

		if _, err := models.ParseTeam(string(p.Team)); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", p.ID, err))
		}
		for _, msg := range validateMonthData(input.Month, p.Vacation, p.DaysOff, p.Coverages) {
			problems = append(problems, p.ID+": "+msg)
		}
	}

	if len(problems) > 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "problems": problems})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"people_count": len(input.People),
			"month":        input.Month,
		},
	})
}

func validateMonthData(ym models.YearMonth, vac *models.Vacation, daysOff []int, coverages []models.Coverage) []string {
	var problems []string
	n := ym.DaysIn()
	if vac != nil && (vac.Start < 1 || vac.End > n || vac.End < vac.Start) {
		problems = append(problems, fmt.Sprintf("vacation %d-%d outside 1-%d", vac.Start, vac.End, n))
	}
	for _, d := range daysOff {
		if d < 1 || d > n {
			problems = append(problems, fmt.Sprintf("day off %d outside 1-%d", d, n))
		}
	}
	for _, cov := range coverages {
		if cov.Day < 1 || cov.Day > n {
			problems = append(problems, fmt.Sprintf("coverage day %d outside 1-%d", cov.Day, n))
		}
		if !cov.Kind.IsValid() {
			problems = append(problems, fmt.Sprintf("coverage kind %q is not valid", cov.Kind))
		}
		if cov.DestinationSite == "" {
			problems = append(problems, fmt.Sprintf("coverage on day %d has no destination", cov.Day))
		}
	}
	return problems
}
