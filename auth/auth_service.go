// Package auth is the authentication core: credential checking, token
// issuance, and refresh-token rotation with reuse detection. It is
// transport-agnostic; the HTTP layer calls it in-process.
package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-auth/credentials"
	"github.com/jrsteele09/go-blog-auth/sessions"
	"github.com/jrsteele09/go-blog-auth/users"
	"github.com/pkg/errors"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users    users.UserRepo // Repository for user accounts
	Sessions sessions.Repo  // Repository for refresh sessions
}

// Result is returned by every operation that issues tokens.
type Result struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
}

// Service exposes register/login/refresh/logout/validate to the route layer.
type Service struct {
	repos     Repos
	rotator   *Rotator
	hasher    *credentials.Hasher
	dummyHash string           // compared against when the login email is unknown
	nowTime   func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, rotator *Rotator, hasher *credentials.Hasher, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if rotator == nil {
		return nil, errors.New("[NewService] rotator is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] hasher is required")
	}

	// Hashed once at startup so a login against an unknown email costs the
	// same bcrypt comparison as one against a real account.
	dummyHash, err := hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] dummy hash")
	}

	service := &Service{
		repos:     repos,
		rotator:   rotator,
		hasher:    hasher,
		dummyHash: dummyHash,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Register creates a new account and logs it in, returning a fresh token
// pair. Fails with EmailTakenErr if the address is already registered.
// Password policy is not enforced here; that belongs to the request layer.
func (s *Service) Register(email, password, name string) (*Result, error) {
	if _, err := s.repos.Users.GetByEmail(email); err == nil {
		return nil, EmailTakenErr
	} else if !errors.Is(err, users.NotFoundErr) {
		return nil, errors.Wrap(err, "[Service.Register] GetByEmail")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] hashing password")
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  name,
		CreatedAt:    s.nowTime(),
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Upsert")
	}

	return s.issueFor(user)
}

// Login checks the credentials and returns a fresh token pair. Unknown email
// and wrong password are deliberately indistinguishable: both return
// InvalidCredentialsErr, and the unknown-email path still pays for a hash
// comparison so response timing does not reveal whether the account exists.
func (s *Service) Login(email, password string) (*Result, error) {
	user, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.NotFoundErr) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, InvalidCredentialsErr
		}
		return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, InvalidCredentialsErr
	}

	return s.issueFor(user)
}

// Refresh rotates the presented refresh token. All rotation failure kinds
// collapse into InvalidTokenErr at this boundary; store faults propagate
// unchanged.
func (s *Service) Refresh(refreshToken string) (*Result, error) {
	user, pair, err := s.rotator.Rotate(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, InvalidTokenErr),
			errors.Is(err, NoValidSessionErr),
			errors.Is(err, ReuseDetectedErr),
			errors.Is(err, UserNotFoundErr):
			return nil, InvalidTokenErr
		}
		return nil, errors.Wrap(err, "[Service.Refresh] Rotate")
	}

	return &Result{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Logout revokes every session of the user, all devices. Idempotent:
// logging out with no active sessions succeeds silently.
func (s *Service) Logout(userID string) error {
	if err := s.repos.Sessions.DeleteAllForOwner(userID); err != nil {
		return errors.Wrap(err, "[Service.Logout] DeleteAllForOwner")
	}
	return nil
}

// ValidateSubject resolves a token subject to its minimal public profile.
// Fails with UserNotFoundErr if the account was deleted after issuance; the
// route layer treats that as unauthorized, not as a server fault.
func (s *Service) ValidateSubject(userID string) (*users.User, error) {
	user, err := s.repos.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, users.NotFoundErr) {
			return nil, UserNotFoundErr
		}
		return nil, errors.Wrap(err, "[Service.ValidateSubject] GetByID")
	}
	return user.Profile(), nil
}

func (s *Service) issueFor(user *users.User) (*Result, error) {
	pair, err := s.rotator.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issueFor] Issue")
	}
	return &Result{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
