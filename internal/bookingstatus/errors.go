package bookingstatus

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	ErrTransitionNotAllowed = fmt.Errorf("%w: bookingstatus: transition not allowed", domain.ErrValidation)
	ErrUnknownAction        = errors.New("bookingstatus: unknown action")
)
