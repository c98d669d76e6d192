package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError переводит ошибку use case'а в HTTP-ответ.
// fallback - текст для 500, детали внутренних ошибок наружу не отдаются.
func respondWithError(w http.ResponseWriter, logger port.LoggerPort, err error, fallback string) {
	if vErr, ok := domain.AsValidationError(err); ok {
		RespondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Step:   string(vErr.Step),
			Fields: vErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrUnknownStep):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSettingsConflict):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrTokenInvalid):
		WriteJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrEmptyMessage):
		RespondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"message": "must not be empty"},
		})
	default:
		logger.Error(fallback, err, nil)
		WriteJSONError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSONBody читает тело запроса в dst и проверяет теги validate
func decodeJSONBody(r *http.Request, dst interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &domain.ValidationError{Fields: map[string]string{"": "request body is not a valid JSON"}}
	}
	return validateStruct(dst)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, &domain.ValidationError{Fields: map[string]string{"": "request body is too large"}}
	}
	return body, nil
}

func parseString(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

func parseInt(q url.Values, key string) int {
	v, _ := strconv.Atoi(q.Get(key))
	return v
}

// parseFloat возвращает nil для пустого или нечислового значения
func parseFloat(q url.Values, key string) *float64 {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// requireFloat - обязательный числовой параметр запроса
func requireFloat(q url.Values, key string, vErr *domain.ValidationError) float64 {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		vErr.Add(key, "is required")
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		vErr.Add(key, "must be a number")
		return 0
	}
	return v
}

// settingsETag: версия 3 -> "v3"
func settingsETag(version int64) string {
	return fmt.Sprintf(`"v%d"`, version)
}

// parseIfMatch возвращает ожидаемую версию из If-Match; "*" и пустой заголовок - без проверки
func parseIfMatch(header string) (*int64, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return nil, nil
	}
	tag := strings.TrimPrefix(header, "W/")
	tag = strings.Trim(tag, `"`)
	if !strings.HasPrefix(tag, "v") {
		return nil, fmt.Errorf("unsupported entity tag %q", header)
	}
	v, err := strconv.ParseInt(tag[1:], 10, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("unsupported entity tag %q", header)
	}
	return &v, nil
}
