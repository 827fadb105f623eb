package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-blog-auth/users"
)

type Middleware func(http.Handler) http.Handler

// ChainMiddleware wraps handler so the first middleware in the list is the
// outermost one.
func ChainMiddleware(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the verified subject stored by RequireSubject.
func IdentityFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(identityKey).(*users.User)
	return user, ok
}

// RequireSubject guards a route: it verifies the bearer access token and
// resolves its subject to a live user, rejecting with 401 otherwise. The
// subject may have been deleted after issuance; a cryptographically valid
// token for a gone user is still unauthorized.
func (s *Server) RequireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := bearerToken(r)
		if !ok {
			writeErr(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		payload, err := s.issuer.VerifyAccessToken(rawToken)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.auth.ValidateSubject(payload.Subject)
		if err != nil {
			s.writeServiceErr(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, user)))
	})
}

// RequestLogger emits one zerolog line per request.
func (s *Server) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Recovered converts a handler panic into a 500 instead of killing the
// connection.
func (s *Server) Recovered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				writeErr(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}
