package domain

import "errors"

// Stable failure kinds surfaced by the auth service. Handlers map these to
// HTTP statuses; messages shown to callers never carry internal detail.
var (
	// ErrValidation is returned for malformed or missing input
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists is returned when a user with the same email exists
	ErrAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for a failed login. Unknown email and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidOrExpiredToken is returned when a verification or reset token
	// does not match any user or has expired
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrNotFound is returned when the referenced user does not exist
	ErrNotFound = errors.New("user not found")

	// ErrProviderAuthFailed is returned when an external provider handshake
	// fails; callers redirect to the error page instead of returning JSON
	ErrProviderAuthFailed = errors.New("provider authentication failed")

	// ErrProviderNotConfigured is returned when a social login flow is
	// requested for a provider without configured credentials
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrUnauthenticated is returned for a missing, malformed or expired
	// bearer token. Expired and forged tokens are not distinguished.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInternal is returned for unexpected store or crypto failures
	ErrInternal = errors.New("internal error")
)
