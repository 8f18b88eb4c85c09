package models

import "strings"

// OnLeaveSite is the site a person is moved to while on leave
const OnLeaveSite = "AFASTADOS"

// Vacation is an inclusive day-of-month interval inside the active month
type Vacation struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether day falls within the vacation
func (v *Vacation) Contains(day int) bool {
	if v == nil {
		return false
	}
	return day >= v.Start && day <= v.End
}

// Coverage records a person temporarily working somewhere other than their own post
type Coverage struct {
	Day             int          `json:"day"`
	DestinationSite string       `json:"destination_site"`
	DestinationPost string       `json:"destination_post,omitempty"`
	Kind            CoverageKind `json:"kind"`
	OriginSite      string       `json:"origin_site,omitempty"`
}

// Label renders the destination as shown on the roster
func (c Coverage) Label() string {
	if c.DestinationPost == "" {
		return c.DestinationSite
	}
	return c.DestinationSite + " - " + c.DestinationPost
}

// TempSchedule overrides a person's schedule and break text for a single day
type TempSchedule struct {
	Schedule string `json:"schedule,omitempty"`
	Break    string `json:"break,omitempty"`
}

// Person is one roster entry for the active month
type Person struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Team          Team                 `json:"team"`
	Site          string               `json:"site"`
	Post          string               `json:"post"`
	Schedule      string               `json:"schedule"`
	Break         string               `json:"break"`
	Vacation      *Vacation            `json:"vacation,omitempty"`
	Days          []int                `json:"days"`
	DaysOff       []int                `json:"days_off,omitempty"`
	Coverages     []Coverage           `json:"coverages,omitempty"`
	TempSchedules map[int]TempSchedule `json:"temp_schedules,omitempty"`
	Note          string               `json:"note,omitempty"`
}

// OnLeave reports whether the person sits in the on-leave sentinel site
func (p *Person) OnLeave() bool {
	return SameSite(p.Site, OnLeaveSite)
}

// WorksOn reports whether day is in the person's working-day list
func (p *Person) WorksOn(day int) bool {
	return containsDay(p.Days, day)
}

// HasDayOff reports whether day was granted as an extra day off
func (p *Person) HasDayOff(day int) bool {
	return containsDay(p.DaysOff, day)
}

// OnVacation reports whether day falls within the person's vacation
func (p *Person) OnVacation(day int) bool {
	return p.Vacation.Contains(day)
}

// CoveragesOn returns the coverage assignments for day, in roster order
func (p *Person) CoveragesOn(day int) []Coverage {
	var out []Coverage
	for _, c := range p.Coverages {
		if c.Day == day {
			out = append(out, c)
		}
	}
	return out
}

// Conflict flags a (day, site, team) group staffed below the minimum
type Conflict struct {
	Day       int    `json:"day"`
	Site      string `json:"site"`
	Team      Team   `json:"team"`
	Effective int    `json:"effective"`
	Nominal   int    `json:"nominal"`
	Message   string `json:"message"`
}

// SameSite compares site names ignoring case and surrounding space
func SameSite(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
