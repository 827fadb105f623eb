// Package server is the HTTP surface of the auth service. It owns no auth
// logic: handlers decode JSON, call the auth.Service, and map its error
// taxonomy onto status codes.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-blog-auth/auth"
	"github.com/jrsteele09/go-blog-auth/token"
)

type Server struct {
	mux    *http.ServeMux
	auth   *auth.Service
	issuer *token.Issuer
	logger zerolog.Logger
}

func New(authService *auth.Service, issuer *token.Issuer, logger zerolog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		auth:   authService,
		issuer: issuer,
		logger: logger,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	common := []Middleware{s.Recovered, s.RequestLogger}

	s.mux.Handle("POST /auth/register", ChainMiddleware(s.RegisterHandler(), common...))
	s.mux.Handle("POST /auth/login", ChainMiddleware(s.LoginHandler(), common...))
	s.mux.Handle("POST /auth/refresh", ChainMiddleware(s.RefreshHandler(), common...))

	guarded := append([]Middleware{}, common...)
	guarded = append(guarded, s.RequireSubject)
	s.mux.Handle("POST /auth/logout", ChainMiddleware(s.LogoutHandler(), guarded...))
	s.mux.Handle("GET /auth/me", ChainMiddleware(s.MeHandler(), guarded...))
}
