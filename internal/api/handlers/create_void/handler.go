package create_void

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	createVoid "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_void"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBedspaceNotFound   = "койко-место не найдено"
)

type Handler struct {
	useCase CreateVoidUseCase
	logger  Logger
}

func NewHandler(useCase CreateVoidUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/voids
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateVoidRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /voids - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /voids - Conflict: bedspace_id=%d, %v", req.BedspaceID, err)
			handlers.RespondConflict(w, err)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			handlers.RespondConcurrencyConflict(w)

		case errors.Is(err, createVoid.ErrBedspaceNotFound):
			handlers.RespondNotFound(w, msgBedspaceNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /voids - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /voids - Failed to create void: bedspace_id=%d, error=%v", req.BedspaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /voids - Void created: void_id=%d, bedspace_id=%d", result.ID, result.BedspaceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
