package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-auth/credentials"
	"github.com/jrsteele09/go-blog-auth/sessions"
	"github.com/jrsteele09/go-blog-auth/token"
	"github.com/jrsteele09/go-blog-auth/users"
	"github.com/pkg/errors"
)

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Rotator is the refresh-token state machine. A presented refresh token is
// either rotated (new pair issued, old session row consumed), rejected, or
// flagged as reuse — in which case every session of the owner is revoked.
//
// Correctness under concurrent rotation of the same token rests on the
// session store: DeleteByID reports whether this caller actually consumed
// the row, and a lost race is handled as reuse. Both the genuine replay and
// the benign concurrent retry fail closed the same way.
type Rotator struct {
	sessions sessions.Repo
	users    users.UserRepo
	issuer   *token.Issuer
	hasher   *credentials.Hasher
	nowFunc  func() time.Time
}

// RotatorOption defines a function type to modify the Rotator instance.
type RotatorOption func(*Rotator)

// WithRotatorNowTime sets the now time function (primarily for testing)
func WithRotatorNowTime(now func() time.Time) RotatorOption {
	return func(r *Rotator) {
		r.nowFunc = now
	}
}

// NewRotator initializes a Rotator with its required dependencies.
func NewRotator(
	sessionRepo sessions.Repo,
	userRepo users.UserRepo,
	issuer *token.Issuer,
	hasher *credentials.Hasher,
	options ...RotatorOption,
) (*Rotator, error) {
	if sessionRepo == nil {
		return nil, errors.New("[NewRotator] session repo is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewRotator] user repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewRotator] issuer is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewRotator] hasher is required")
	}

	r := &Rotator{
		sessions: sessionRepo,
		users:    userRepo,
		issuer:   issuer,
		hasher:   hasher,
		nowFunc:  time.Now,
	}

	for _, opt := range options {
		opt(r)
	}

	return r, nil
}

// Issue mints a new access/refresh pair for the user and persists the
// refresh session. Used on register, login, and the tail of a rotation.
func (r *Rotator) Issue(user *users.User) (*TokenPair, error) {
	accessToken, err := r.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotator.Issue] IssueAccessToken")
	}

	refreshToken, err := r.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotator.Issue] IssueRefreshToken")
	}

	secretHash, err := r.hasher.Hash(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotator.Issue] hashing refresh secret")
	}

	now := r.nowFunc()
	if err := r.sessions.Create(&sessions.RefreshSession{
		ID:         uuid.New().String(),
		OwnerID:    user.ID,
		SecretHash: secretHash,
		ExpiresAt:  now.Add(r.issuer.RefreshTTL()),
		CreatedAt:  now,
	}); err != nil {
		return nil, errors.Wrap(err, "[Rotator.Issue] sessions.Create")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Rotate verifies the presented refresh token, consumes its session row, and
// issues a replacement pair.
//
// Failure kinds:
//   - InvalidTokenErr: signature/expiry/type check failed; the store is
//     never touched.
//   - NoValidSessionErr: the subject has zero unexpired sessions.
//   - ReuseDetectedErr: the token was once issued but its row is gone — a
//     replay. Every session of the subject is revoked before returning.
//   - UserNotFoundErr: the subject was deleted after issuance.
//
// A store failure is returned as-is; in particular it must never trigger
// the reuse sweep.
func (r *Rotator) Rotate(presentedToken string) (*users.User, *TokenPair, error) {
	payload, err := r.issuer.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, nil, InvalidTokenErr
	}

	now := r.nowFunc()
	candidates, err := r.sessions.ListValid(payload.Subject, now)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Rotator.Rotate] sessions.ListValid")
	}
	if len(candidates) == 0 {
		return nil, nil, NoValidSessionErr
	}

	var matched *sessions.RefreshSession
	for _, candidate := range candidates {
		if r.hasher.Verify(presentedToken, candidate.SecretHash) {
			matched = candidate
			break
		}
	}

	if matched == nil {
		// Valid signature, live sessions, no matching row: this token was
		// rotated away or revoked and is being replayed. Terminate every
		// session for the subject, all devices.
		if err := r.sessions.DeleteAllForOwner(payload.Subject); err != nil {
			return nil, nil, errors.Wrap(err, "[Rotator.Rotate] reuse sweep")
		}
		return nil, nil, ReuseDetectedErr
	}

	consumed, err := r.sessions.DeleteByID(matched.ID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Rotator.Rotate] sessions.DeleteByID")
	}
	if !consumed {
		// A concurrent rotation of the same token won the delete. Exactly
		// one caller may proceed; this one takes the reuse path.
		if err := r.sessions.DeleteAllForOwner(payload.Subject); err != nil {
			return nil, nil, errors.Wrap(err, "[Rotator.Rotate] reuse sweep")
		}
		return nil, nil, ReuseDetectedErr
	}

	user, err := r.users.GetByID(payload.Subject)
	if err != nil {
		if errors.Is(err, users.NotFoundErr) {
			return nil, nil, UserNotFoundErr
		}
		return nil, nil, errors.Wrap(err, "[Rotator.Rotate] users.GetByID")
	}

	pair, err := r.Issue(user)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Rotator.Rotate] Issue")
	}

	return user, pair, nil
}
