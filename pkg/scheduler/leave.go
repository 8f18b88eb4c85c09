package scheduler

import (
	"regexp"
	"strconv"
	"time"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

var dateToken = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)

// CheckVacationReturn reports whether the last date written in note falls before ym starts.
// Notes are appended chronologically, so the last date is authoritative.
// A date without a year is read in ym's year.
func CheckVacationReturn(note string, ym models.YearMonth) bool {
	matches := dateToken.FindAllStringSubmatch(note, -1)
	if len(matches) == 0 {
		return false
	}
	ret, ok := tokenDate(matches[len(matches)-1], ym.Year)
	if !ok {
		return false
	}
	return ret.Before(ym.FirstDay())
}

func tokenDate(m []string, defaultYear int) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := defaultYear
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > (models.YearMonth{Year: year, Month: time.Month(month)}).DaysIn() {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
