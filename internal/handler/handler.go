package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"discount-api/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given transport status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response is already committed; nothing useful left to do.
		return
	}
}

// writeSuccess writes the success envelope with body code 200.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, model.Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// writeServiceError is the single place translating lifecycle errors to the
// wire contract. Business failures keep transport 200 and signal through
// the body code; everything unmodelled goes through the generic 422
// pipeline with the message passed through, which existing clients depend
// on.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domErr *model.DomainError
	if errors.As(err, &domErr) {
		switch domErr.Code {
		case model.ErrCodeOwnerNotFound:
			writeJSON(w, http.StatusOK, model.Response{Code: 404, Message: domErr.Message})
		case model.ErrCodeVoucherCodeExists, model.ErrCodeRecordExists:
			writeJSON(w, http.StatusOK, model.Response{Code: 400, Message: domErr.Message})
		case model.ErrCodeNotVenueMember:
			writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Code: 401, Message: domErr.Message})
		default:
			writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Code: 422, Message: domErr.Message})
		}
		logger.Debug().Str("error_code", domErr.Code).Str("message", domErr.Message).Msg("business failure")
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Code: 422, Message: err.Error()})
}

// NotFound is the catch-all for unrouted paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
		Code:    422,
		Message: fmt.Sprintf("Route Not Found: [%s] %s", r.Method, r.URL.Path),
	})
}
