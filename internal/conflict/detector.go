// Package conflict decides whether a candidate occupation of a bedspace collides with
// existing active bookings, voids or the bedspace archival date.
package conflict

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Overlaps reports whether two closed date ranges share a day: a1 <= d2 and a2 <= d1.
func Overlaps(a, b domain.DateRange) bool {
	return a.Overlaps(b)
}

// Result is the outcome of a single check.
type Result struct {
	BedspaceID int64
	Candidate  domain.DateRange

	// ArchivedFrom is set when the candidate starts on or after the bedspace end date
	ArchivedFrom *time.Time

	// Conflicts are the active intervals overlapping the candidate, in input order
	Conflicts []Interval
}

// IsArchived reports the archival flavour of conflict.
func (r Result) IsArchived() bool {
	return r.ArchivedFrom != nil
}

// HasConflict is true when the candidate cannot be written.
func (r Result) HasConflict() bool {
	return r.IsArchived() || len(r.Conflicts) > 0
}

// Refs returns the ids of the conflicting intervals.
func (r Result) Refs() []domain.IntervalRef {
	refs := make([]domain.IntervalRef, len(r.Conflicts))
	for i, c := range r.Conflicts {
		refs[i] = c.Ref
	}
	return refs
}

// Err returns nil when the candidate is clear and a *domain.ConflictError otherwise.
func (r Result) Err() error {
	if !r.HasConflict() {
		return nil
	}
	return &domain.ConflictError{
		BedspaceID:   r.BedspaceID,
		Candidate:    r.Candidate,
		Conflicts:    r.Refs(),
		ArchivedFrom: r.ArchivedFrom,
	}
}

// Detector runs conflict checks. It keeps no state between calls.
type Detector struct{}

// NewDetector creates a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Check compares candidate against the active intervals of bedspace.
// Intervals of other bedspaces and the interval named by exclude are ignored.
// The archival rule is evaluated on the candidate start: start >= EndDate is archived.
func (d *Detector) Check(bedspace *domain.Bedspace, candidate domain.DateRange, intervals []Interval, exclude *domain.IntervalRef) Result {
	res := Result{BedspaceID: bedspace.ID, Candidate: candidate}

	if bedspace.IsArchivedOn(candidate.Start) {
		archivedFrom := *bedspace.EndDate
		res.ArchivedFrom = &archivedFrom
	}

	for _, i := range intervals {
		if !i.Active || i.BedspaceID != bedspace.ID {
			continue
		}
		if exclude != nil && i.Ref == *exclude {
			continue
		}
		if Overlaps(candidate, i.Blocked) {
			res.Conflicts = append(res.Conflicts, i)
		}
	}

	return res
}

// HasConflict is the yes/no form of Check.
func (d *Detector) HasConflict(bedspace *domain.Bedspace, candidate domain.DateRange, intervals []Interval, exclude *domain.IntervalRef) bool {
	return d.Check(bedspace, candidate, intervals, exclude).HasConflict()
}
