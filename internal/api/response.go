package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/internal/types"
)

type Result struct {
	Status int
	Data   any
}

func NewResult(data any) *Result {
	return &Result{Status: http.StatusOK, Data: data}
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type handlerFunc func(r *http.Request) (*Result, *types.Error)

func registerHandler(handler handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		status := result.Status
		if status == 0 {
			status = http.StatusOK
		}
		writeJSON(w, r, status, PublicResponse[any]{Data: result.Data})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *types.Error) {
	logger := log.Ctx(r.Context())
	if err.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Request rejected")
	}

	writeJSON(w, r, err.StatusCode, ErrorResponse{
		ErrorCode: string(err.ErrorCode),
		Message:   err.Err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
