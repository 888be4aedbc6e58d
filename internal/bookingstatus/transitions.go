package bookingstatus

import (
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Action is a mutation requested on a booking
type Action string

const (
	ActionArrive           Action = "arrive"
	ActionDepart           Action = "depart"
	ActionCancel           Action = "cancel"
	ActionNonArrive        Action = "non-arrive"
	ActionConfirm          Action = "confirm"
	ActionChangeDates      Action = "change-dates"
	ActionChangeTurnaround Action = "change-turnaround"
)

// allowed lists the derived statuses each action may be applied in.
// Re-recording an arrival, departure or cancellation appends a newer authoritative record.
var allowed = map[Action][]domain.BookingStatus{
	ActionArrive:           {domain.StatusProvisional, domain.StatusConfirmed, domain.StatusArrived},
	ActionDepart:           {domain.StatusArrived, domain.StatusDeparted, domain.StatusClosed},
	ActionCancel:           {domain.StatusProvisional, domain.StatusConfirmed, domain.StatusArrived, domain.StatusNotArrived, domain.StatusCancelled},
	ActionNonArrive:        {domain.StatusProvisional, domain.StatusConfirmed},
	ActionConfirm:          {domain.StatusProvisional},
	ActionChangeDates:      {domain.StatusProvisional, domain.StatusConfirmed, domain.StatusArrived},
	ActionChangeTurnaround: {domain.StatusProvisional, domain.StatusConfirmed, domain.StatusArrived, domain.StatusDeparted, domain.StatusClosed},
}

// CheckTransition returns ErrTransitionNotAllowed when action cannot be applied in status.
func CheckTransition(status domain.BookingStatus, action Action) error {
	statuses, ok := allowed[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	for _, s := range statuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s a booking in status %s", ErrTransitionNotAllowed, action, status)
}
