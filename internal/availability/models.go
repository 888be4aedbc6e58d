package availability

import (
	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Filter narrows candidates by characteristic tags
type Filter struct {
	Required []string
	Excluded []string
}

// Matches reports whether the bedspace carries every required tag and none of the excluded ones
func (f Filter) Matches(b *domain.Bedspace) bool {
	for _, tag := range f.Required {
		if !b.HasCharacteristic(tag) {
			return false
		}
	}
	for _, tag := range f.Excluded {
		if b.HasCharacteristic(tag) {
			return false
		}
	}
	return true
}

// Query is a single search over a date range
type Query struct {
	Range        domain.DateRange
	CandidateIDs []int64
	Filter       Filter

	// Bedspaces, Bookings and Voids are whatever the persistence layer found for the
	// candidates; ids with no matching bedspace are dropped silently
	Bedspaces []domain.Bedspace
	Bookings  []domain.Booking
	Voids     []domain.VoidPeriod
}

// RiskLookup decorates overlaps with upstream risk data keyed by case reference
type RiskLookup interface {
	IsElevatedRisk(crn string) bool
}

// RiskFlags is a RiskLookup backed by a map; unknown references are not elevated
type RiskFlags map[string]bool

func (f RiskFlags) IsElevatedRisk(crn string) bool {
	return f[crn]
}

// UnavailableReason explains why a bedspace was excluded without any overlap
type UnavailableReason string

const (
	ReasonArchived     UnavailableReason = "archived"
	ReasonNotYetOnline UnavailableReason = "not-yet-online"
)

// Overlap describes one occupant blocking a bedspace within the searched range
type Overlap struct {
	Ref          domain.IntervalRef
	CRN          string
	Days         int
	ElevatedRisk bool

	// TurnaroundOnly is set when the stay itself is outside the range and only the
	// turnaround buffer reaches into it; Days is then 0
	TurnaroundOnly bool
}

// Result is the outcome of a search
type Result struct {
	// Available keeps the candidate order
	Available []int64

	Overlaps    map[int64][]Overlap
	Unavailable map[int64]UnavailableReason
}

func newResult() *Result {
	return &Result{
		Available:   []int64{},
		Overlaps:    make(map[int64][]Overlap),
		Unavailable: make(map[int64]UnavailableReason),
	}
}

func overlapFrom(i conflict.Interval, r domain.DateRange, risk RiskLookup) Overlap {
	o := Overlap{
		Ref:            i.Ref,
		CRN:            i.CRN,
		Days:           r.OverlapDays(i.Stay),
		TurnaroundOnly: i.IsTurnaroundOnly(r),
	}
	if risk != nil && i.CRN != "" {
		o.ElevatedRisk = risk.IsElevatedRisk(i.CRN)
	}
	return o
}
