package extend_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	extendBooking "github.com/m04kA/SMC-AccommodationService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBookingNotFound    = "бронирование не найдено"
	msgArrivalLocked      = "дату заезда нельзя изменить после фактического заезда"
)

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId}/dates - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ChangeDatesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%d/dates - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /bookings/%d/dates - Conflict: %v", bookingID, err)
			handlers.RespondConflict(w, err)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/%d/dates - Concurrent update: %v", bookingID, err)
			handlers.RespondConcurrencyConflict(w)

		case errors.Is(err, extendBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, extendBooking.ErrArrivalLocked):
			handlers.RespondBadRequest(w, msgArrivalLocked)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /bookings/%d/dates - Validation failed: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/%d/dates - Failed to change dates: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/dates - Dates changed: %s..%s, version=%d",
		bookingID, result.ArrivalDate.Format(domain.DateFormat), result.DepartureDate.Format(domain.DateFormat), result.Version)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
