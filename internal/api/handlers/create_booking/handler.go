package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	createBooking "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBedspaceNotFound   = "койко-место не найдено"
	msgBeforeStart        = "дата заезда раньше даты ввода койко-места"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /bookings - Conflict: bedspace_id=%d, %v", req.BedspaceID, err)
			handlers.RespondConflict(w, err)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("POST /bookings - Concurrent write: bedspace_id=%d, %v", req.BedspaceID, err)
			handlers.RespondConcurrencyConflict(w)

		case errors.Is(err, createBooking.ErrBedspaceNotFound):
			h.logger.Warn("POST /bookings - Bedspace not found: bedspace_id=%d", req.BedspaceID)
			handlers.RespondNotFound(w, msgBedspaceNotFound)

		case errors.Is(err, createBooking.ErrArrivalBeforeBedspaceStart):
			handlers.RespondBadRequest(w, msgBeforeStart)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: bedspace_id=%d, error=%v", req.BedspaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, bedspace_id=%d",
		result.ID, result.BedspaceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
