package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-blog-auth/auth"
)

const contentTypeJSON = "application/json; charset=utf-8"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErr(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, into any) error {
	return json.NewDecoder(r.Body).Decode(into)
}

// writeServiceErr maps the auth error taxonomy to status codes. Every
// credential, token, and subject failure is a uniform 401: reuse detection
// in particular must not look special from outside. Anything unrecognized
// is a store fault and surfaces as a 500 without detail.
func (s *Server) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.EmailTakenErr):
		writeErr(w, http.StatusConflict, auth.EmailTakenErr.Error())
	case errors.Is(err, auth.InvalidCredentialsErr):
		writeErr(w, http.StatusUnauthorized, auth.InvalidCredentialsErr.Error())
	case errors.Is(err, auth.InvalidTokenErr),
		errors.Is(err, auth.UserNotFoundErr):
		writeErr(w, http.StatusUnauthorized, auth.InvalidTokenErr.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected service failure")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
