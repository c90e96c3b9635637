package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

func renderJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func renderError(w http.ResponseWriter, r *http.Request, statusCode int, err error, code, message, field string) {
	event := zerolog.Ctx(r.Context()).Warn()
	if statusCode >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
		message = "An internal error occurred"
	}
	event.Err(err).Int("status", statusCode).Str("code", code).Msg("request failed")

	renderJSON(w, statusCode, ErrorResponse{
		Type: KindError,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

func Success(w http.ResponseWriter, data any) {
	renderJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	renderJSON(w, http.StatusCreated, data)
}

func BadRequest(w http.ResponseWriter, r *http.Request, err error, message, field string) {
	renderError(w, r, http.StatusBadRequest, err, CodeInvalidRequest, message, field)
}

func NotFound(w http.ResponseWriter, r *http.Request, err error, message string) {
	renderError(w, r, http.StatusNotFound, err, CodeNotFound, message, "")
}

func Conflict(w http.ResponseWriter, r *http.Request, err error, message string) {
	renderError(w, r, http.StatusConflict, err, CodeConflict, message, "")
}

func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, http.StatusInternalServerError, err, CodeInternal, "", "")
}

// DecodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports false when the body is unusable.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, r, err, "Invalid JSON body", "")
		return false
	}
	if err := ValidateStruct(dst); err != nil {
		BadRequest(w, r, err, err.Error(), err.Field)
		return false
	}
	return true
}
