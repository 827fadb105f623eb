package token

import "errors"

// TokenInvalidErr covers every verification failure: bad signature, wrong
// signing key, expiry, malformed claims, wrong token type. Callers are never
// told which check failed.
var TokenInvalidErr = errors.New("invalid token")
