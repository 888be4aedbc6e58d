package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/ptr"
)

const (
	msgInternalError      = "внутренняя ошибка сервера"
	msgBedspaceArchived   = "койко-место выведено из эксплуатации на выбранные даты"
	msgBedspaceOccupied   = "койко-место занято на выбранные даты"
	msgConcurrentConflict = "данные были изменены параллельным запросом, повторите попытку"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`

	// Retryable выставляется для конкурентных конфликтов: запрос можно повторить
	Retryable bool `json:"retryable,omitempty"`

	Conflicts    []ConflictRef `json:"conflicts,omitempty"`
	ArchivedFrom *string       `json:"archivedFrom,omitempty"`
}

// ConflictRef интервал, с которым пересекается запрос
type ConflictRef struct {
	Kind string `json:"kind"` // booking | void
	ID   int64  `json:"id"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound отправляет 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError отправляет 500 без подробностей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondConflict отправляет 409 с интервалами, вызвавшими конфликт
// Архивация койко-места отличается от пересечения сообщением и полем archivedFrom
func RespondConflict(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: msgBedspaceOccupied}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		if conflictErr.IsArchived() {
			resp.Error = msgBedspaceArchived
			resp.ArchivedFrom = ptr.Ptr(conflictErr.ArchivedFrom.Format(domain.DateFormat))
		}
		for _, ref := range conflictErr.Conflicts {
			resp.Conflicts = append(resp.Conflicts, ConflictRef{Kind: string(ref.Kind), ID: ref.ID})
		}
	}

	RespondJSON(w, http.StatusConflict, resp)
}

// RespondConcurrencyConflict отправляет 409 с признаком повторяемости
func RespondConcurrencyConflict(w http.ResponseWriter) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgConcurrentConflict, Retryable: true})
}

// DecodeJSON декодирует тело запроса, отклоняя неизвестные поля
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// PathID извлекает положительный int64 параметр пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}

// ParseOptionalDate разбирает дату YYYY-MM-DD; пустая строка - нулевое время
func ParseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(s)
}
