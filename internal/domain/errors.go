package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds. Every error surfaced by the engine and its operations matches exactly one
// of these through errors.Is; package-specific sentinels wrap them.
var (
	// ErrValidation marks malformed input to a single operation
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a write that overlaps an active interval or targets an archived bedspace
	ErrConflict = errors.New("conflict")

	// ErrBedspaceArchived marks the archival flavour of ErrConflict
	ErrBedspaceArchived = errors.New("bedspace archived")

	// ErrConcurrencyConflict marks a lost race against a concurrent writer; the whole
	// check-and-write may be retried after re-reading state
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrNotFound marks a reference to a bedspace, booking or void that does not exist
	ErrNotFound = errors.New("not found")
)

// IntervalKind names the source of an occupation interval
type IntervalKind string

const (
	IntervalBooking IntervalKind = "booking"
	IntervalVoid    IntervalKind = "void"
)

// IntervalRef identifies an interval across kinds (booking and void ids may collide)
type IntervalRef struct {
	Kind IntervalKind
	ID   int64
}

func (r IntervalRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// ConflictError describes why a candidate interval was rejected.
// It matches ErrConflict, and additionally ErrBedspaceArchived when ArchivedFrom is set.
type ConflictError struct {
	BedspaceID int64
	Candidate  DateRange

	// Conflicts lists the active intervals overlapping the candidate
	Conflicts []IntervalRef

	// ArchivedFrom is the bedspace end date when the candidate starts on or after it
	ArchivedFrom *time.Time
}

func (e *ConflictError) Error() string {
	if e.ArchivedFrom != nil {
		return fmt.Sprintf("bedspace %d is archived from %s, candidate %s",
			e.BedspaceID, e.ArchivedFrom.Format(DateFormat), e.Candidate)
	}
	refs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		refs[i] = c.String()
	}
	return fmt.Sprintf("bedspace %d: candidate %s conflicts with %s",
		e.BedspaceID, e.Candidate, strings.Join(refs, ", "))
}

// Is lets errors.Is match the conflict kinds
func (e *ConflictError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return true
	case ErrBedspaceArchived:
		return e.ArchivedFrom != nil
	default:
		return false
	}
}

// IsArchived reports whether this is the archival flavour of conflict
func (e *ConflictError) IsArchived() bool {
	return e.ArchivedFrom != nil
}
