package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// BusinessHours is the interval assumed for schedules written as "expediente"
var BusinessHours = Interval{Start: 7 * 60, End: 18 * 60}

var hourToken = regexp.MustCompile(`(?i)\b(\d{1,2})\s*h(\d{2})?`)

// Interval is a time-of-day range in minutes. CrossDay marks ranges that wrap past midnight.
type Interval struct {
	Start    int  `json:"start"`
	End      int  `json:"end"`
	CrossDay bool `json:"cross_day"`
}

func newInterval(start, end int) Interval {
	return Interval{Start: start, End: end, CrossDay: start > end}
}

// Contains reports whether minute falls in [Start, End), wrapping past midnight when CrossDay
func (iv Interval) Contains(minute int) bool {
	if iv.CrossDay {
		return minute >= iv.Start || minute < iv.End
	}
	return minute >= iv.Start && minute < iv.End
}

// Overlaps reports whether the two ranges share any minute. Ranges are compared as written.
func (iv Interval) Overlaps(other Interval) bool {
	return min(iv.End, other.End)-max(iv.Start, other.Start) > 0
}

// Duration returns the interval length in minutes
func (iv Interval) Duration() int {
	if iv.CrossDay {
		return minutesPerDay - iv.Start + iv.End
	}
	return iv.End - iv.Start
}

// ParseTimeInput converts "HH:MM" into minutes since midnight
func ParseTimeInput(text string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, ok := atoiDigits(parts[0])
	if !ok {
		return 0, false
	}
	m, ok := atoiDigits(parts[1])
	if !ok {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ParseSchedule reads free text like "06h às 18h15" into an Interval.
// The first two hour tokens are the start and the end.
func ParseSchedule(text string) (Interval, bool) {
	if isPlaceholder(text) {
		return Interval{}, false
	}
	if strings.Contains(strings.ToLower(text), "expediente") {
		return BusinessHours, true
	}

	tokens := hourToken.FindAllStringSubmatch(text, 2)
	if len(tokens) < 2 {
		return Interval{}, false
	}
	start, ok := tokenMinutes(tokens[0][1], tokens[0][2])
	if !ok || start >= minutesPerDay {
		return Interval{}, false
	}
	end, ok := tokenMinutes(tokens[1][1], tokens[1][2])
	if !ok || end > minutesPerDay {
		return Interval{}, false
	}
	return newInterval(start, end%minutesPerDay), true
}

// ExtractTimeInputs seeds editable start/end fields from schedule text.
// Both values are empty when the text cannot be parsed.
func ExtractTimeInputs(text string) (start, end string) {
	iv, ok := ParseSchedule(text)
	if !ok {
		return "", ""
	}
	return clock(iv.Start), clock(iv.End)
}

// FormatTimeInputs renders a start/end pair as display text ("06h às 18h15")
func FormatTimeInputs(start, end string) string {
	s, ok := ParseTimeInput(start)
	if !ok {
		return ""
	}
	e, ok := ParseTimeInput(end)
	if !ok {
		return ""
	}
	return display(s) + " às " + display(e)
}

func isPlaceholder(text string) bool {
	switch strings.TrimSpace(text) {
	case "", "***", "-":
		return true
	}
	return false
}

// tokenMinutes accepts hours up to 24 and minutes up to 59
func tokenMinutes(hours, minutes string) (int, bool) {
	h, _ := strconv.Atoi(hours)
	m := 0
	if minutes != "" {
		m, _ = strconv.Atoi(minutes)
	}
	if h > 24 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func display(minute int) string {
	h, m := minute/60, minute%60
	if m == 0 {
		return fmt.Sprintf("%02dh", h)
	}
	return fmt.Sprintf("%02dh%02d", h, m)
}
