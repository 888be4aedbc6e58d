// Package availability finds bedspaces free for a whole date range and reports the
// occupants of the ones that are not.
package availability

import (
	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Searcher composes the conflict detector with turnaround-aware booking intervals.
type Searcher struct {
	detector *conflict.Detector
	ends     conflict.EndDater
}

// NewSearcher creates a searcher. ends extends bookings by their turnaround.
func NewSearcher(detector *conflict.Detector, ends conflict.EndDater) *Searcher {
	return &Searcher{detector: detector, ends: ends}
}

// Search evaluates every candidate bedspace against the range.
//
// A bedspace is available when it is online on the first day of the range, is not
// archived on any day of it and no active booking or void overlaps it. Bedspaces that
// fail the characteristic filter are left out of the result entirely.
func (s *Searcher) Search(q Query, risk RiskLookup) *Result {
	res := newResult()

	bedspaces := make(map[int64]*domain.Bedspace, len(q.Bedspaces))
	for i := range q.Bedspaces {
		bedspaces[q.Bedspaces[i].ID] = &q.Bedspaces[i]
	}
	intervals := conflict.GroupByBedspace(conflict.Collect(q.Bookings, q.Voids, s.ends))

	seen := make(map[int64]struct{}, len(q.CandidateIDs))
	for _, id := range q.CandidateIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		bs, ok := bedspaces[id]
		if !ok || !q.Filter.Matches(bs) {
			continue
		}

		if bs.IsArchivedWithin(q.Range) {
			res.Unavailable[id] = ReasonArchived
			continue
		}
		if !bs.IsOnlineFrom(q.Range.Start) {
			res.Unavailable[id] = ReasonNotYetOnline
			continue
		}

		check := s.detector.Check(bs, q.Range, intervals[id], nil)
		if !check.HasConflict() {
			res.Available = append(res.Available, id)
			continue
		}

		overlaps := make([]Overlap, 0, len(check.Conflicts))
		for _, c := range check.Conflicts {
			overlaps = append(overlaps, overlapFrom(c, q.Range, risk))
		}
		res.Overlaps[id] = overlaps
	}

	return res
}

// OccupantCRNs returns the distinct case references of the active bookings whose blocked
// interval touches the range, the only occupants an overlap can report.
func (s *Searcher) OccupantCRNs(q Query) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range q.Bookings {
		in := conflict.FromBooking(&q.Bookings[i], s.ends)
		if !in.Active || in.CRN == "" || !in.Blocked.Overlaps(q.Range) {
			continue
		}
		if _, ok := seen[in.CRN]; ok {
			continue
		}
		seen[in.CRN] = struct{}{}
		out = append(out, in.CRN)
	}
	return out
}
