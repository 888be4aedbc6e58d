package premises

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/premises/models"
)

const (
	msgInvalidPremisesID  = "некорректный ID помещения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPremisesNotFound   = "помещение не найдено"
)

type Handler struct {
	service PremisesService
	logger  Logger
}

func NewHandler(service PremisesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/premises/{premisesId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	premisesID, err := handlers.PathID(r, "premisesId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPremisesID)
		return
	}

	premises, err := h.service.GetByID(r.Context(), premisesID)
	if err != nil {
		h.respondError(w, "GET /premises/{premisesId}", premisesID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, premises)
}

// HandleUpdate PUT /api/v1/premises/{premisesId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	premisesID, err := handlers.PathID(r, "premisesId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPremisesID)
		return
	}

	var req models.UpdateTurnaroundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /premises/%d - Invalid request body: %v", premisesID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	premises, err := h.service.UpdateTurnaround(r.Context(), premisesID, &req)
	if err != nil {
		h.respondError(w, "PUT /premises/{premisesId}", premisesID, err)
		return
	}

	h.logger.Info("PUT /premises/%d - Turnaround updated: %d working days (default=%t)",
		premisesID, premises.TurnaroundWorkingDays, premises.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, premises)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, premisesID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		handlers.RespondNotFound(w, msgPremisesNotFound)
	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Validation failed: premises_id=%d, %v", route, premisesID, err)
		handlers.RespondBadRequest(w, err.Error())
	default:
		h.logger.Error("%s - Failed: premises_id=%d, error=%v", route, premisesID, err)
		handlers.RespondInternalError(w)
	}
}
