package scheduler

import (
	"sort"
	"strings"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// PostCategory weights how much an uncovered post matters
type PostCategory string

const (
	// PostCritical covers access-control posts
	PostCritical  PostCategory = "critical"
	PostClassroom PostCategory = "classroom"
	PostOther     PostCategory = "other"
)

var postKeywords = []struct {
	category PostCategory
	words    []string
}{
	{PostCritical, []string{"portaria", "catraca", "guarita"}},
	{PostClassroom, []string{"bloco", "sala", "alfa", "charlie"}},
}

// ClassifyPost maps a post name onto its category by keyword
func ClassifyPost(name string) PostCategory {
	lower := strings.ToLower(name)
	for _, k := range postKeywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.category
			}
		}
	}
	return PostOther
}

// PeakWindow is a known high-traffic period
type PeakWindow struct {
	Name string
	Interval
}

var (
	MorningPeak = PeakWindow{Name: "morning", Interval: newInterval(6*60, 8*60+30)}
	LunchPeak   = PeakWindow{Name: "lunch", Interval: newInterval(11*60, 13*60+30)}
	EveningPeak = PeakWindow{Name: "evening", Interval: newInterval(17*60+30, 19*60+30)}

	PeakWindows = []PeakWindow{MorningPeak, LunchPeak, EveningPeak}
)

// CalculateIntervalRisk scores the risk of post's break going uncovered.
// A pinned override always wins.
func CalculateIntervalRisk(post, breakText string, overrides models.RiskOverrides) models.RiskLevel {
	rest, ok := ParseSchedule(breakText)
	return BreakRisk(post, rest, ok, overrides)
}

// BreakRisk scores an already parsed break. hasBreak is false when no break is recorded.
func BreakRisk(post string, rest Interval, hasBreak bool, overrides models.RiskOverrides) models.RiskLevel {
	if lvl, ok := lookupOverride(post, overrides); ok {
		return lvl
	}
	if !hasBreak {
		return models.RiskGreen
	}

	switch ClassifyPost(post) {
	case PostCritical:
		for _, w := range PeakWindows {
			if rest.Overlaps(w.Interval) {
				return models.RiskRed
			}
		}
		return models.RiskOrange
	case PostClassroom:
		if rest.Overlaps(EveningPeak.Interval) {
			return models.RiskOrange
		}
	}
	return models.RiskYellow
}

func lookupOverride(post string, overrides models.RiskOverrides) (models.RiskLevel, bool) {
	if lvl, ok := overrides[post]; ok {
		return lvl, true
	}
	want := strings.ToUpper(strings.TrimSpace(post))
	for name, lvl := range overrides {
		if strings.ToUpper(strings.TrimSpace(name)) == want {
			return lvl, true
		}
	}
	return models.RiskGreen, false
}

// PostRisk is one line of the roster risk board
type PostRisk struct {
	PersonID string           `json:"person_id"`
	Name     string           `json:"name"`
	Site     string           `json:"site"`
	Post     string           `json:"post"`
	Break    string           `json:"break"`
	Window   *Interval        `json:"window,omitempty"`
	Category PostCategory     `json:"category"`
	Level    models.RiskLevel `json:"level"`
}

// RosterRisk scores every person's post, worst first
func RosterRisk(roster []models.Person, overrides models.RiskOverrides) []PostRisk {
	out := make([]PostRisk, 0, len(roster))
	for _, p := range roster {
		if p.OnLeave() {
			continue
		}
		rest, hasBreak := ParseSchedule(p.Break)
		var window *Interval
		if hasBreak {
			window = &rest
		}
		out = append(out, PostRisk{
			PersonID: p.ID,
			Name:     p.Name,
			Site:     p.Site,
			Post:     p.Post,
			Break:    p.Break,
			Category: ClassifyPost(p.Post),
			Window:   window,
			Level:    BreakRisk(p.Post, rest, hasBreak, overrides),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].Post < out[j].Post
	})
	return out
}
