package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/postplanner/internal/common"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"message": ...}. Server-side failures are logged
// with their cause; only the caller-facing message leaves the process.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fallback := http.StatusText(status)
	if status == http.StatusInternalServerError {
		fallback = "Server error"
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, common.Message(err, fallback))
}

// decodeJSON reads a JSON body into dst. Malformed input is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// An empty body decodes as an empty object.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return common.WrapError(common.ErrorValidation, "Invalid request body", err)
	}
	return nil
}
