package scheduler

import (
	"sort"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// AvailabilityKind classifies a person as a coverage candidate
type AvailabilityKind string

const (
	KindOnLeave         AvailabilityKind = "on_leave"
	KindVacation        AvailabilityKind = "vacation"
	KindAlreadyCovering AvailabilityKind = "already_covering"
	KindReassignable    AvailabilityKind = "reassignable"
	KindOvertime        AvailabilityKind = "overtime"
)

// Availability is the result of CheckAvailability
type Availability struct {
	Available bool             `json:"available"`
	Kind      AvailabilityKind `json:"kind"`
	Label     string           `json:"label"`
}

// CheckAvailability decides whether person may cover a shift on day.
// Leave and vacation always win over duty-based classification.
func CheckAvailability(person models.Person, day int) Availability {
	switch {
	case person.OnLeave():
		return Availability{Kind: KindOnLeave, Label: "Afastado"}
	case person.OnVacation(day):
		return Availability{Kind: KindVacation, Label: "Férias"}
	case len(person.CoveragesOn(day)) > 0:
		return Availability{Available: true, Kind: KindAlreadyCovering, Label: "Já está cobrindo"}
	case person.WorksOn(day):
		return Availability{Available: true, Kind: KindReassignable, Label: "Remanejamento"}
	}
	return Availability{Available: true, Kind: KindOvertime, Label: "Hora extra"}
}

// Candidate pairs a person with their availability
type Candidate struct {
	Person       models.Person `json:"person"`
	Availability Availability  `json:"availability"`
}

var candidateRank = map[AvailabilityKind]int{
	KindOvertime:        0,
	KindReassignable:    1,
	KindAlreadyCovering: 2,
}

// CoverageCandidates lists everyone available on day except excludeID.
// Off-duty people come first, then those who can be pulled from their post, then those already covering.
func CoverageCandidates(roster []models.Person, day int, excludeID string) []Candidate {
	var out []Candidate
	for _, p := range roster {
		if p.ID == excludeID {
			continue
		}
		av := CheckAvailability(p, day)
		if !av.Available {
			continue
		}
		out = append(out, Candidate{Person: p, Availability: av})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := candidateRank[out[i].Availability.Kind], candidateRank[out[j].Availability.Kind]
		if ri != rj {
			return ri < rj
		}
		return out[i].Person.Name < out[j].Person.Name
	})
	return out
}
