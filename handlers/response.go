package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lorryledger/services"
)

type ApiResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []services.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, ApiResponse{Success: true, Message: message, Data: data})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ApiResponse{
		Success: false,
		Message: "Invalid request payload: " + err.Error(),
	})
}

// statusFor maps the service error taxonomy onto HTTP.
func statusFor(err error) int {
	var (
		verr     *services.ValidationError
		conflict *services.ConflictError
		pre      *services.PreconditionError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &pre):
		return http.StatusPreconditionFailed
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	resp := ApiResponse{Success: false, Message: err.Error()}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "Validation failed"
		resp.Errors = verr.Fields
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		resp.Message = "Internal server error"
	}
	writeJSON(w, status, resp)
}

// sessionFromRequest reads the caller's identity from headers set by the
// gateway in front of this service.
func sessionFromRequest(r *http.Request) services.Session {
	return services.Session{
		UserID:    r.Header.Get("X-User-ID"),
		CompanyID: r.Header.Get("X-Company-ID"),
	}
}
