package credentials_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/go-blog-auth/credentials"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHasher(t *testing.T) *credentials.Hasher {
	t.Helper()
	h, err := credentials.NewHasher(bcrypt.MinCost) // keep the test suite fast
	require.NoError(t, err)
	return h
}

func TestNewHasherRejectsCostOutOfRange(t *testing.T) {
	_, err := credentials.NewHasher(bcrypt.MinCost - 1)
	require.Error(t, err)

	_, err = credentials.NewHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}

func TestHashIsNotReversibleAndVerifies(t *testing.T) {
	h := newHasher(t)

	digest, err := h.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", digest)
	require.True(t, h.Verify("password123", digest))
	require.False(t, h.Verify("password124", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := newHasher(t)

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, h.Verify("password123", first))
	require.True(t, h.Verify("password123", second))
}

func TestVerifyMalformedDigestIsNoMatch(t *testing.T) {
	h := newHasher(t)

	require.False(t, h.Verify("password123", ""))
	require.False(t, h.Verify("password123", "not-a-bcrypt-digest"))

	digest, err := h.Hash("password123")
	require.NoError(t, err)
	require.False(t, h.Verify("password123", digest[:10])) // truncated stored value
}

func TestLongInputsHashDistinctly(t *testing.T) {
	// Signed tokens exceed bcrypt's 72 byte input limit and share a common
	// prefix; the pre-hash must keep them distinguishable.
	h := newHasher(t)

	prefix := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 8)
	first, err := h.Hash(prefix + "first")
	require.NoError(t, err)

	require.True(t, h.Verify(prefix+"first", first))
	require.False(t, h.Verify(prefix+"second", first))
}
