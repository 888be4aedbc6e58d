package booking_events

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректные поля запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgAlreadyRecorded    = "событие уже зарегистрировано для бронирования"
)

// Handler обрабатывает журнал событий бронирования:
// заезды, выезды, отмены, неявки, подтверждения и turnaround
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleArrival POST /api/v1/bookings/{bookingId}/arrivals
func (h *Handler) HandleArrival(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/arrivals"

	var body ArrivalRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, err := body.toServiceRequest()
	if err != nil {
		h.badFields(w, route, bookingID, err)
		return
	}

	resp, err := h.service.RecordArrival(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// HandleDeparture POST /api/v1/bookings/{bookingId}/departures
func (h *Handler) HandleDeparture(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/departures"

	var body DepartureRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, err := body.toServiceRequest()
	if err != nil {
		h.badFields(w, route, bookingID, err)
		return
	}

	resp, err := h.service.RecordDeparture(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// HandleCancellation POST /api/v1/bookings/{bookingId}/cancellations
func (h *Handler) HandleCancellation(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/cancellations"

	var body CancellationRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, err := body.toServiceRequest()
	if err != nil {
		h.badFields(w, route, bookingID, err)
		return
	}

	resp, err := h.service.Cancel(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// HandleNonArrival POST /api/v1/bookings/{bookingId}/non-arrivals
func (h *Handler) HandleNonArrival(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/non-arrivals"

	var body NonArrivalRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, err := body.toServiceRequest()
	if err != nil {
		h.badFields(w, route, bookingID, err)
		return
	}

	resp, err := h.service.RecordNonArrival(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// HandleConfirmation POST /api/v1/bookings/{bookingId}/confirmations
func (h *Handler) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/confirmations"

	var body ConfirmationRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, _ := body.toServiceRequest()

	resp, err := h.service.Confirm(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// HandleTurnaround POST /api/v1/bookings/{bookingId}/turnarounds
func (h *Handler) HandleTurnaround(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{bookingId}/turnarounds"

	var body TurnaroundRequest
	bookingID, ok := h.decode(w, r, route, &body)
	if !ok {
		return
	}
	req, err := body.toServiceRequest()
	if err != nil {
		h.badFields(w, route, bookingID, err)
		return
	}

	resp, err := h.service.ChangeTurnaround(r.Context(), bookingID, req)
	h.respond(w, route, bookingID, http.StatusCreated, resp, err)
}

// decode разбирает ID из пути и тело запроса; при ошибке ответ уже отправлен
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) (int64, bool) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, false
	}

	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return 0, false
	}

	return bookingID, true
}

func (h *Handler) badFields(w http.ResponseWriter, route string, bookingID int64, err error) {
	h.logger.Warn("%s - Invalid fields: booking_id=%d, %v", route, bookingID, err)
	handlers.RespondBadRequest(w, msgInvalidFields)
}

// respond отправляет результат операции сервиса, сопоставляя ошибки с HTTP статусами
func (h *Handler) respond(w http.ResponseWriter, route string, bookingID int64, status int, resp *models.BookingResponse, err error) {
	if err == nil {
		h.logger.Info("%s - Recorded: booking_id=%d, status=%s, version=%d", route, bookingID, resp.Status, resp.Version)
		handlers.RespondJSON(w, status, resp)
		return
	}

	switch {
	case errors.Is(err, domain.ErrConflict):
		h.logger.Warn("%s - Conflict: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondConflict(w, err)

	case errors.Is(err, domain.ErrConcurrencyConflict):
		h.logger.Warn("%s - Concurrent update: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondConcurrencyConflict(w)

	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, bookings.ErrAlreadyRecorded):
		handlers.RespondBadRequest(w, msgAlreadyRecorded)

	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Validation failed: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Failed: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
