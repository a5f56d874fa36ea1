package handlers

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"mt5gateway/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse - стандартный формат ответа об ошибке для всех endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Retcode int    `json:"retcode,omitempty"`
}

// respondJSON сериализует успешный ответ
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError отображает тег ошибки сервиса в HTTP статус и
// стандартное тело ошибки. Текст сообщения не разбирается.
func respondError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)

	resp := ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    string(kind),
	}

	var serr *service.Error
	if errors.As(err, &serr) {
		resp.Error = serr.Message
		resp.Retcode = serr.Retcode
	}

	respondJSON(w, statusForKind(kind), resp)
}

// statusForKind - отображение тега ошибки в HTTP статус
func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation,
		service.KindSymbolNotFound,
		service.KindSymbolUnavailable,
		service.KindOrderRejected:
		return http.StatusBadRequest
	case service.KindAuthenticationFailed:
		return http.StatusUnauthorized
	case service.KindPositionNotFound:
		return http.StatusNotFound
	default:
		// terminal_unavailable, price_unavailable и всё нетегированное
		return http.StatusInternalServerError
	}
}

// decodeBody разбирает JSON тело запроса. Пустое тело допустимо,
// если optional = true.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	if r.Body == nil || r.ContentLength == 0 {
		if optional {
			return true
		}
		respondError(w, service.Errorf(service.KindValidation, "request body required"))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, service.Errorf(service.KindValidation, "malformed request body: %v", err))
		return false
	}
	return true
}
