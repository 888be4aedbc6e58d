package search_availability

import (
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.DateRange, error) {
	rng, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if rng.Days() > domain.MaxSearchRangeDays {
		return domain.DateRange{}, fmt.Errorf("%w: range must be at most %d days", ErrInvalidInput, domain.MaxSearchRangeDays)
	}

	if len(req.BedspaceIDs) > domain.MaxSearchBedspaces {
		return domain.DateRange{}, fmt.Errorf("%w: at most %d bedspaces per search", ErrInvalidInput, domain.MaxSearchBedspaces)
	}

	for _, id := range req.BedspaceIDs {
		if id <= 0 {
			return domain.DateRange{}, fmt.Errorf("%w: bedspace id %d must be positive", ErrInvalidInput, id)
		}
	}

	return rng, nil
}
