package auth_test

import (
	"testing"

	"github.com/jrsteele09/go-blog-auth/auth"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesTokensAndSession(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.Register(testUserEmail, testUserPassword, testUserName)
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, testUserEmail, result.User.Email)
	require.Equal(t, testUserName, result.User.DisplayName)
	require.Equal(t, 1, f.sessionRepo.CountForOwner(result.User.ID))

	// The stored password is hashed, never the plaintext.
	stored, err := f.userRepo.GetByID(result.User.ID)
	require.NoError(t, err)
	require.NotEqual(t, testUserPassword, stored.PasswordHash)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(testUserEmail, testUserPassword, testUserName)
	require.NoError(t, err)

	_, err = f.service.Register(testUserEmail, "OtherPassword1", "Someone Else")
	require.ErrorIs(t, err, auth.EmailTakenErr)
}

// Password policy lives at the request layer; the core accepts whatever it
// is handed, so a lowercase-only password registers and logs in fine.
func TestRegisterImposesNoPasswordPolicy(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(testUserEmail, "password123", testUserName)
	require.NoError(t, err)

	result, err := f.service.Login(testUserEmail, "password123")
	require.NoError(t, err)
	require.Equal(t, testUserEmail, result.User.Email)
}

func TestLoginIssuesTokens(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	result, err := f.service.Login(testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, 1, f.sessionRepo.CountForOwner(result.User.ID))
}

func TestLoginFailureIsSymmetric(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t)

	// Unknown email and wrong password produce the identical error value;
	// nothing distinguishes the two cases.
	_, unknownErr := f.service.Login("nonexistent@x.com", "any")
	_, wrongErr := f.service.Login(testUserEmail, "wrongpassword")

	require.ErrorIs(t, unknownErr, auth.InvalidCredentialsErr)
	require.ErrorIs(t, wrongErr, auth.InvalidCredentialsErr)
	require.Equal(t, unknownErr, wrongErr)
}

func TestRefreshMapsRotationFailures(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	// Garbage token.
	_, err := f.service.Refresh("garbage")
	require.ErrorIs(t, err, auth.InvalidTokenErr)

	// Well-formed token, no sessions.
	refresh, err := f.issuer.IssueRefreshToken(user.ID)
	require.NoError(t, err)
	_, err = f.service.Refresh(refresh)
	require.ErrorIs(t, err, auth.InvalidTokenErr)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair, err := f.rotator.Issue(user)
	require.NoError(t, err)
	require.Equal(t, 1, f.sessionRepo.CountForOwner(user.ID))

	require.NoError(t, f.service.Logout(user.ID))
	require.Equal(t, 0, f.sessionRepo.CountForOwner(user.ID))

	// Second logout with no active sessions succeeds silently.
	require.NoError(t, f.service.Logout(user.ID))

	// The logged-out token is dead.
	_, err = f.service.Refresh(pair.RefreshToken)
	require.ErrorIs(t, err, auth.InvalidTokenErr)
}

func TestValidateSubject(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	profile, err := f.service.ValidateSubject(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.ID)
	require.Equal(t, testUserEmail, profile.Email)
	require.Equal(t, testUserName, profile.DisplayName)
	require.Empty(t, profile.PasswordHash)

	require.NoError(t, f.userRepo.Delete(user.ID))
	_, err = f.service.ValidateSubject(user.ID)
	require.ErrorIs(t, err, auth.UserNotFoundErr)
}

// The full lifecycle: register, rotate, replay the consumed token, then try
// the (previously valid) successor after the reuse sweep.
func TestRefreshLifecycleWithReuseSweep(t *testing.T) {
	f := setupTestFixture(t)

	registered, err := f.service.Register("alice@example.com", "password123", "Alice")
	require.NoError(t, err)
	alice := registered.User
	require.Equal(t, 1, f.sessionRepo.CountForOwner(alice.ID))

	// Rotation: old row gone, exactly one new row.
	rotated, err := f.service.Refresh(registered.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)
	require.Equal(t, 1, f.sessionRepo.CountForOwner(alice.ID))

	// Replaying the original, now-consumed token wipes everything.
	_, err = f.service.Refresh(registered.RefreshToken)
	require.ErrorIs(t, err, auth.InvalidTokenErr)
	require.Equal(t, 0, f.sessionRepo.CountForOwner(alice.ID))

	// The successor from the successful rotation was never replayed, but
	// the sweep killed it too.
	_, err = f.service.Refresh(rotated.RefreshToken)
	require.ErrorIs(t, err, auth.InvalidTokenErr)
}
