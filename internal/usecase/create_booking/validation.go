package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	req.CRN = strings.TrimSpace(req.CRN)

	if req.CRN == "" {
		return fmt.Errorf("%w: crn is required", ErrInvalidInput)
	}

	if len(req.CRN) > domain.MaxCRNLength {
		return fmt.Errorf("%w: crn must be at most %d characters", ErrInvalidInput, domain.MaxCRNLength)
	}

	if req.BedspaceID <= 0 {
		return fmt.Errorf("%w: bedspaceID must be positive", ErrInvalidInput)
	}

	if req.ArrivalDate.IsZero() || req.DepartureDate.IsZero() {
		return fmt.Errorf("%w: arrival and departure dates are required", ErrInvalidInput)
	}

	req.ArrivalDate = domain.TruncateDay(req.ArrivalDate)
	req.DepartureDate = domain.TruncateDay(req.DepartureDate)

	if req.DepartureDate.Before(req.ArrivalDate) {
		return fmt.Errorf("%w: departure date %s is before arrival date %s", ErrInvalidInput,
			req.DepartureDate.Format(domain.DateFormat), req.ArrivalDate.Format(domain.DateFormat))
	}

	if req.TurnaroundWorkingDays != nil {
		n := *req.TurnaroundWorkingDays
		if n < domain.MinTurnaroundWorkingDays || n > domain.MaxTurnaroundWorkingDays {
			return fmt.Errorf("%w: turnaround must be between %d and %d working days", ErrInvalidInput,
				domain.MinTurnaroundWorkingDays, domain.MaxTurnaroundWorkingDays)
		}
	}

	return nil
}

// resolveTurnaround выбирает turnaround: из запроса, затем из помещения, затем по умолчанию
func resolveTurnaround(req *Request, bedspace *domain.Bedspace, defaultDays int) int {
	if req.TurnaroundWorkingDays != nil {
		return *req.TurnaroundWorkingDays
	}
	if bedspace.PremisesTurnaroundWorkingDays != nil {
		return *bedspace.PremisesTurnaroundWorkingDays
	}
	return defaultDays
}
