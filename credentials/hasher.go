// Package credentials provides the one-way hashing primitive used for both
// user passwords and refresh-token secrets.
package credentials

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces salted bcrypt digests and verifies plaintexts against them.
// The zero value is not usable; construct with NewHasher.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost factor.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("[NewHasher] cost %d outside %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns a salted digest of plaintext. Two calls with the same input
// produce different digests; both verify.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "[Hasher.Hash] bcrypt.GenerateFromPassword")
	}
	return string(digest), nil
}

// Verify reports whether plaintext was the input to the Hash call that
// produced digest. A malformed or truncated digest is simply no match;
// callers never see a distinct error for it.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(plaintext)) == nil
}

// prehash folds the input through SHA-256 before bcrypt. bcrypt only reads
// the first 72 bytes of its input; signed refresh tokens are longer than
// that and share a common prefix, so feeding them in directly would make
// distinct tokens collide. Base64 keeps the digest free of NUL bytes,
// which bcrypt treats as terminators.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
