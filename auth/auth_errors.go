package auth

import "errors"

// Expected, caller-recoverable outcomes. Anything else escaping this package
// is a store fault and must be treated as a generic failure.
var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	EmailTakenErr         = errors.New("email already registered")
	InvalidTokenErr       = errors.New("invalid token")
	NoValidSessionErr     = errors.New("no valid session")
	ReuseDetectedErr      = errors.New("refresh token reuse detected")
	UserNotFoundErr       = errors.New("user not found")
)
