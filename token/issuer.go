// Package token mints and verifies the signed access and refresh tokens.
// Access and refresh tokens are signed with separate keys so that a
// compromise of one key cannot forge the other class of token.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Token type discriminators carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Payload is the verified content of a token.
type Payload struct {
	Subject   string
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints access and refresh tokens and verifies presented ones.
type Issuer struct {
	accessSigner  Signer
	refreshSigner Signer
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	nowFunc       func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// NewIssuer initializes an Issuer with separate signers for the two token
// classes and their respective lifetimes.
func NewIssuer(accessSigner, refreshSigner Signer, issuer string, accessTTL, refreshTTL time.Duration, options ...IssuerOption) (*Issuer, error) {
	if accessSigner == nil {
		return nil, errors.New("[NewIssuer] accessSigner is required")
	}
	if refreshSigner == nil {
		return nil, errors.New("[NewIssuer] refreshSigner is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("[NewIssuer] token lifetimes must be positive")
	}

	i := &Issuer{
		accessSigner:  accessSigner,
		refreshSigner: refreshSigner,
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(i)
	}

	return i, nil
}

// IssueAccessToken mints a short-lived access token. The email claim is a
// non-sensitive convenience for the route layer; secrets never go in claims.
func (i *Issuer) IssueAccessToken(subjectID, email string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss":   i.issuer,
		"sub":   subjectID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTTL).Unix(),
		"jti":   uuid.New().String(),
		"typ":   TypeAccess,
	}
	signed, err := i.accessSigner.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.IssueAccessToken] Sign")
	}
	return signed, nil
}

// IssueRefreshToken mints a long-lived refresh token. The jti claim makes
// every issuance unique even for the same subject within the same second.
func (i *Issuer) IssueRefreshToken(subjectID string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss": i.issuer,
		"sub": subjectID,
		"iat": now.Unix(),
		"exp": now.Add(i.refreshTTL).Unix(),
		"jti": uuid.New().String(),
		"typ": TypeRefresh,
	}
	signed, err := i.refreshSigner.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Issuer.IssueRefreshToken] Sign")
	}
	return signed, nil
}

// VerifyAccessToken checks signature, expiry and type of an access token.
func (i *Issuer) VerifyAccessToken(rawToken string) (*Payload, error) {
	return i.verify(rawToken, TypeAccess, i.accessSigner)
}

// VerifyRefreshToken checks signature, expiry and type of a refresh token.
func (i *Issuer) VerifyRefreshToken(rawToken string) (*Payload, error) {
	return i.verify(rawToken, TypeRefresh, i.refreshSigner)
}

// AccessTTL returns the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *Issuer) verify(rawToken, expectedType string, signer Signer) (*Payload, error) {
	parsed, err := jwt.Parse(rawToken, signer.GetVerificationKey, jwt.WithTimeFunc(i.nowFunc))
	if err != nil || !parsed.Valid {
		return nil, TokenInvalidErr
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, TokenInvalidErr
	}

	// A syntactically valid token of the wrong class must be
	// indistinguishable from a forged one.
	typ, _ := claims["typ"].(string)
	if typ != expectedType {
		return nil, TokenInvalidErr
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, TokenInvalidErr
	}

	email, _ := claims["email"].(string)
	jti, _ := claims["jti"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &Payload{
		Subject:   sub,
		Email:     email,
		TokenID:   jti,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
