package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTeam      = errors.New("unknown team")
	ErrInvalidRiskLevel = errors.New("invalid risk level")
)

// Team identifies a squad and, through its pattern, which days it works
type Team string

const (
	TeamA   Team = "A"
	TeamB   Team = "B"
	TeamC   Team = "C"
	TeamD   Team = "D"
	TeamE1  Team = "E1"
	TeamE2  Team = "E2"
	TeamADM Team = "ADM"
)

// Pattern is the weekly or rotating work pattern of a team
type Pattern int

const (
	// PatternRotation is the 12x36 even/odd-day rotation
	PatternRotation Pattern = iota
	// PatternMonSat works every day except Sunday
	PatternMonSat
	// PatternWeekdays works Monday to Friday
	PatternWeekdays
)

// NormalizeTeam upper-cases and trims a team id without validating it
func NormalizeTeam(s string) Team {
	return Team(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseTeam is the strict variant of NormalizeTeam
func ParseTeam(s string) (Team, error) {
	t := NormalizeTeam(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, s)
	}
	return t, nil
}

// IsValid checks if the team is one of the known squads
func (t Team) IsValid() bool {
	switch t {
	case TeamA, TeamB, TeamC, TeamD, TeamE1, TeamE2, TeamADM:
		return true
	}
	return false
}

// Pattern maps a team to its work pattern. Unknown ids rotate like C.
func (t Team) Pattern() Pattern {
	switch NormalizeTeam(string(t)) {
	case TeamE1:
		return PatternMonSat
	case TeamE2, TeamADM:
		return PatternWeekdays
	}
	return PatternRotation
}

// CoverageKind tags why a person is covering another post
type CoverageKind string

const (
	CoverageReassignment CoverageKind = "reassignment"
	CoverageOvertime     CoverageKind = "overtime"
	CoverageBreak        CoverageKind = "break_coverage"
)

// IsValid checks if the CoverageKind is valid
func (k CoverageKind) IsValid() bool {
	switch k {
	case CoverageReassignment, CoverageOvertime, CoverageBreak:
		return true
	}
	return false
}

// RiskLevel orders how dangerous an uncovered break is; higher is worse
type RiskLevel int

const (
	RiskGreen RiskLevel = iota
	RiskYellow
	RiskOrange
	RiskRed
)

var riskNames = [...]string{"GREEN", "YELLOW", "ORANGE", "RED"}

func (r RiskLevel) String() string {
	if r < RiskGreen || r > RiskRed {
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
	return riskNames[r]
}

// ParseRiskLevel accepts a level name in any case
func ParseRiskLevel(s string) (RiskLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range riskNames {
		if n == name {
			return RiskLevel(i), nil
		}
	}
	return RiskGreen, fmt.Errorf("%w: %q", ErrInvalidRiskLevel, s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	if r < RiskGreen || r > RiskRed {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRiskLevel, int(r))
	}
	return []byte(riskNames[r]), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	lvl, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// RiskOverrides pins a risk level per post name
type RiskOverrides map[string]RiskLevel
