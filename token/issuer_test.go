package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-blog-auth/token"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-key-0123456789abcdef"
	refreshSecret = "refresh-secret-key-0123456789abcdef"
	testIssuer    = "com.blogauth"
	testSubject   = "user-1"
	testEmail     = "john.doe@example.com"
)

func newIssuer(t *testing.T, options ...token.IssuerOption) *token.Issuer {
	t.Helper()
	i, err := token.NewIssuer(
		token.NewHMACSigner(accessSecret),
		token.NewHMACSigner(refreshSecret),
		testIssuer,
		15*time.Minute,
		7*24*time.Hour,
		options...,
	)
	require.NoError(t, err)
	return i
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	raw, err := issuer.IssueAccessToken(testSubject, testEmail)
	require.NoError(t, err)

	payload, err := issuer.VerifyAccessToken(raw)
	require.NoError(t, err)
	require.Equal(t, testSubject, payload.Subject)
	require.Equal(t, testEmail, payload.Email)
	require.NotEmpty(t, payload.TokenID)
	require.True(t, payload.ExpiresAt.After(payload.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	raw, err := issuer.IssueRefreshToken(testSubject)
	require.NoError(t, err)

	payload, err := issuer.VerifyRefreshToken(raw)
	require.NoError(t, err)
	require.Equal(t, testSubject, payload.Subject)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	issuer := newIssuer(t)

	access, err := issuer.IssueAccessToken(testSubject, testEmail)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken(testSubject)
	require.NoError(t, err)

	// Wrong class fails exactly like a forged token.
	_, err = issuer.VerifyRefreshToken(access)
	require.ErrorIs(t, err, token.TokenInvalidErr)
	_, err = issuer.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, token.TokenInvalidErr)
}

func TestWrongKeyFailsVerification(t *testing.T) {
	issuer := newIssuer(t)
	otherIssuer, err := token.NewIssuer(
		token.NewHMACSigner("different-access-key-0123456789ab"),
		token.NewHMACSigner("different-refresh-key-0123456789a"),
		testIssuer,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	raw, err := issuer.IssueRefreshToken(testSubject)
	require.NoError(t, err)

	_, err = otherIssuer.VerifyRefreshToken(raw)
	require.ErrorIs(t, err, token.TokenInvalidErr)
}

func TestExpiredTokenFailsVerification(t *testing.T) {
	now := time.Now()
	issuer := newIssuer(t, token.WithNowFunc(func() time.Time { return now }))

	raw, err := issuer.IssueAccessToken(testSubject, testEmail)
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = issuer.VerifyAccessToken(raw)
	require.ErrorIs(t, err, token.TokenInvalidErr)
}

func TestGarbageFailsVerification(t *testing.T) {
	issuer := newIssuer(t)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.VerifyRefreshToken(raw)
		require.ErrorIs(t, err, token.TokenInvalidErr)
	}
}

func TestIssuancesAreUnique(t *testing.T) {
	// Same subject, same frozen clock: the jti claim must still make the
	// two tokens distinct.
	now := time.Now()
	issuer := newIssuer(t, token.WithNowFunc(func() time.Time { return now }))

	first, err := issuer.IssueRefreshToken(testSubject)
	require.NoError(t, err)
	second, err := issuer.IssueRefreshToken(testSubject)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
