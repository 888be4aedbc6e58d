package voids

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/voids/models"
)

const (
	msgInvalidVoidID      = "некорректный ID периода простоя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgVoidNotFound       = "период простоя не найден"
)

type Handler struct {
	service VoidService
	logger  Logger
}

func NewHandler(service VoidService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/voids/{voidId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	voidID, err := handlers.PathID(r, "voidId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidVoidID)
		return
	}

	void, err := h.service.GetByID(r.Context(), voidID)
	if err != nil {
		h.respondError(w, "GET /voids/{voidId}", voidID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, void)
}

// HandleCancel POST /api/v1/voids/{voidId}/cancellations
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	voidID, err := handlers.PathID(r, "voidId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidVoidID)
		return
	}

	var req models.CancelVoidRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /voids/%d/cancellations - Invalid request body: %v", voidID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	void, err := h.service.Cancel(r.Context(), voidID, &req)
	if err != nil {
		h.respondError(w, "POST /voids/{voidId}/cancellations", voidID, err)
		return
	}

	h.logger.Info("POST /voids/%d/cancellations - Void cancelled", voidID)
	handlers.RespondJSON(w, http.StatusCreated, void)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, voidID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		handlers.RespondNotFound(w, msgVoidNotFound)
	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Validation failed: void_id=%d, %v", route, voidID, err)
		handlers.RespondBadRequest(w, err.Error())
	default:
		h.logger.Error("%s - Failed: void_id=%d, error=%v", route, voidID, err)
		handlers.RespondInternalError(w)
	}
}
