package server

import (
	"net/http"

	"github.com/jrsteele09/go-blog-auth/auth"
	"github.com/jrsteele09/go-blog-auth/users"
)

type tokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *users.User `json:"user"`
}

func tokensFrom(result *auth.Result) tokenResponse {
	return tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User.Profile(),
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in request
		if err := decodeJSON(r, &in); err != nil || in.Email == "" || in.Password == "" || in.Name == "" {
			writeErr(w, http.StatusBadRequest, "email, password and name are required")
			return
		}
		if err := users.ValidatePasswordStrength(in.Password); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := s.auth.Register(in.Email, in.Password, in.Name)
		if err != nil {
			s.writeServiceErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tokensFrom(result))
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in request
		if err := decodeJSON(r, &in); err != nil || in.Email == "" || in.Password == "" {
			writeErr(w, http.StatusBadRequest, "email and password are required")
			return
		}

		result, err := s.auth.Login(in.Email, in.Password)
		if err != nil {
			s.writeServiceErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tokensFrom(result))
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in request
		if err := decodeJSON(r, &in); err != nil || in.RefreshToken == "" {
			writeErr(w, http.StatusBadRequest, "refreshToken is required")
			return
		}

		result, err := s.auth.Refresh(in.RefreshToken)
		if err != nil {
			s.writeServiceErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tokensFrom(result))
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		if !ok {
			writeErr(w, http.StatusUnauthorized, "missing identity")
			return
		}

		if err := s.auth.Logout(user.ID); err != nil {
			s.writeServiceErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		if !ok {
			writeErr(w, http.StatusUnauthorized, "missing identity")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
