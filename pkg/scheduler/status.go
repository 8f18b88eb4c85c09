package scheduler

import "github.com/arnavshah/roster-api-go/pkg/models"

// DutyState is where a person stands at a given moment
type DutyState string

const (
	StateOff     DutyState = "off"
	StateOnDuty  DutyState = "on_duty"
	StateOnBreak DutyState = "on_break"
)

const (
	VariantNormal  = "normal"
	VariantWarning = "warning"
	VariantMuted   = "muted"
)

// Status is the resolved duty status of a person
type Status struct {
	Active   bool      `json:"active"`
	State    DutyState `json:"state"`
	Label    string    `json:"label"`
	Variant  string    `json:"variant"`
	Location string    `json:"location,omitempty"`
}

var inactive = Status{State: StateOff, Label: "Inativo", Variant: VariantMuted}

// GetStatus resolves whether person is off, on duty or on break on day.
// timeOfDay is "HH:MM"; when empty or unparseable only the day is considered.
func GetStatus(person models.Person, day int, timeOfDay string) Status {
	coverages := person.CoveragesOn(day)
	if !person.WorksOn(day) && len(coverages) == 0 {
		return inactive
	}

	location := person.Site
	if len(coverages) > 0 {
		location = coverages[0].Label()
	}
	onDuty := Status{Active: true, State: StateOnDuty, Label: "Em serviço", Variant: VariantNormal, Location: location}

	now, ok := ParseTimeInput(timeOfDay)
	if !ok {
		return onDuty
	}

	switch ParseDaySchedule(person, day).StateAt(now) {
	case StateOnBreak:
		return Status{Active: true, State: StateOnBreak, Label: "Intervalo", Variant: VariantWarning, Location: location}
	case StateOnDuty:
		return onDuty
	}
	return inactive
}

// DaySchedule holds the work and break intervals in force for one person on one day
type DaySchedule struct {
	Work     Interval `json:"work"`
	HasWork  bool     `json:"has_work"`
	Break    Interval `json:"break"`
	HasBreak bool     `json:"has_break"`
}

// ParseDaySchedule parses the effective schedule and break text for day
func ParseDaySchedule(person models.Person, day int) DaySchedule {
	schedule, breakText := EffectiveSchedule(person, day)
	var ds DaySchedule
	ds.Work, ds.HasWork = ParseSchedule(schedule)
	ds.Break, ds.HasBreak = ParseSchedule(breakText)
	return ds
}

// StateAt places minute inside the day's intervals. A malformed schedule means off.
func (ds DaySchedule) StateAt(minute int) DutyState {
	if !ds.HasWork || !ds.Work.Contains(minute) {
		return StateOff
	}
	if ds.HasBreak && ds.Break.Contains(minute) {
		return StateOnBreak
	}
	return StateOnDuty
}

// EffectiveSchedule returns the schedule and break text in force on day.
// A temporary override replaces each standing field it sets.
func EffectiveSchedule(person models.Person, day int) (schedule, breakText string) {
	schedule, breakText = person.Schedule, person.Break
	if tmp, ok := person.TempSchedules[day]; ok {
		if tmp.Schedule != "" {
			schedule = tmp.Schedule
		}
		if tmp.Break != "" {
			breakText = tmp.Break
		}
	}
	return schedule, breakText
}
