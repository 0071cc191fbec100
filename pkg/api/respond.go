package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/autobrr/namedir/pkg/directory"
)

type errorResponse struct {
	Error string `json:"error"`
}

// parseIntDefault returns def for missing, malformed or zero values. Negative values pass through.
func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v == 0 {
		return def
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// StatusFor maps a directory error to an HTTP status and a client-facing message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, directory.ErrNotReady):
		return http.StatusServiceUnavailable, "Data still loading, please wait..."
	case errors.Is(err, directory.ErrInvalidOffset):
		return http.StatusBadRequest, "Invalid offset"
	case errors.Is(err, directory.ErrLetterNotFound):
		return http.StatusNotFound, "No users found for that letter"
	case errors.Is(err, directory.ErrEmptyQuery):
		return http.StatusBadRequest, "Query must be at least 1 character"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusFor(err)

	if errors.Is(err, directory.ErrLetterNotFound) {
		if letter := letterParam(r); letter != "" {
			message = fmt.Sprintf("No users found starting with %s", letter)
		}
	}

	if directory.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.log.WithError(err).Errorf("Failed serving %s", r.URL.Path)
	} else {
		s.log.WithError(err).Debugf("Rejected %s", r.URL.RequestURI())
	}

	respondJSON(w, status, errorResponse{Error: message})
}
