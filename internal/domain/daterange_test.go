package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"disjoint", rng(1, 4), rng(6, 9), false},
		{"adjacent days do not overlap", rng(1, 4), rng(5, 9), false},
		{"shared boundary day", rng(5, 8), rng(8, 12), true},
		{"contained", rng(1, 20), rng(5, 6), true},
		{"identical", rng(3, 3), rng(3, 3), true},
		{"single day inside", rng(3, 3), rng(1, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestDateRange_OverlapsIsSymmetric(t *testing.T) {
	for a1 := 1; a1 <= 8; a1++ {
		for d1 := a1; d1 <= 8; d1++ {
			for a2 := 1; a2 <= 8; a2++ {
				for d2 := a2; d2 <= 8; d2++ {
					a, b := rng(a1, d1), rng(a2, d2)
					require.Equal(t, a.Overlaps(b), b.Overlaps(a), "%s vs %s", a, b)
				}
			}
		}
	}
}

func TestDateRange_OverlapDays(t *testing.T) {
	assert.Equal(t, 1, rng(5, 8).OverlapDays(rng(8, 12)))
	assert.Equal(t, 4, rng(1, 10).OverlapDays(rng(3, 6)))
	assert.Equal(t, 0, rng(1, 2).OverlapDays(rng(5, 6)))
	assert.Equal(t, 10, rng(1, 10).Days())
}

func TestNewDateRange_Validation(t *testing.T) {
	_, err := NewDateRange(Date(2024, 1, 10), Date(2024, 1, 9))
	require.ErrorIs(t, err, ErrValidation)

	r, err := NewDateRange(Date(2024, 1, 9), Date(2024, 1, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func rng(startDay, endDay int) DateRange {
	return DateRange{Start: Date(2024, 1, startDay), End: Date(2024, 1, endDay)}
}
