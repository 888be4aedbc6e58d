package extend_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ExpectedVersion < 0 {
		return fmt.Errorf("%w: version must not be negative", ErrInvalidInput)
	}

	if req.NewDepartureDate.IsZero() {
		return fmt.Errorf("%w: departure date is required", ErrInvalidInput)
	}
	req.NewDepartureDate = domain.TruncateDay(req.NewDepartureDate)

	if req.NewArrivalDate != nil {
		arrival := domain.TruncateDay(*req.NewArrivalDate)
		req.NewArrivalDate = &arrival
		if req.NewDepartureDate.Before(arrival) {
			return fmt.Errorf("%w: departure date %s is before arrival date %s", ErrInvalidInput,
				req.NewDepartureDate.Format(domain.DateFormat), arrival.Format(domain.DateFormat))
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
