package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflictError_Kinds(t *testing.T) {
	overlap := &ConflictError{
		BedspaceID: 1,
		Candidate:  rng(8, 12),
		Conflicts:  []IntervalRef{{Kind: IntervalBooking, ID: 42}},
	}
	archivedFrom := Date(2024, 3, 1)
	archived := &ConflictError{BedspaceID: 1, Candidate: rng(1, 2), ArchivedFrom: &archivedFrom}

	assert.True(t, errors.Is(overlap, ErrConflict))
	assert.False(t, errors.Is(overlap, ErrBedspaceArchived))
	assert.True(t, errors.Is(archived, ErrConflict))
	assert.True(t, errors.Is(archived, ErrBedspaceArchived))

	wrapped := fmt.Errorf("create_booking: %w", overlap)
	var ce *ConflictError
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, int64(42), ce.Conflicts[0].ID)
	assert.Contains(t, overlap.Error(), "booking:42")
}
