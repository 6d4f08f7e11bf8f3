package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// StatusForError maps use-case errors onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSurveyClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes the mapped status for err. Unexpected errors are logged with op
// and answered with fallback instead of the raw error text.
func WriteError(logger *log.Logger, w http.ResponseWriter, op string, err error, fallback string) {
	status := StatusForError(err)
	message := err.Error()
	switch status {
	case http.StatusNotFound:
		message = "対象が見つかりません"
	case http.StatusConflict:
		message = "アンケートは締め切られています"
	case http.StatusInternalServerError:
		if logger != nil {
			logger.Printf("%s failed: %v", op, err)
		}
		message = fallback
	}
	WriteJSON(logger, w, status, map[string]string{"error": message})
}
