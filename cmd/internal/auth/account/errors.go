package account

import "errors"

// Sentinel errors (stable for errors.Is and for mapping to API messages).
var (
	// ErrMissingFields is returned when a required signup field is empty.
	ErrMissingFields = errors.New("missing fields")

	// ErrAccountExists is returned when the signup email is already taken.
	// No information beyond "exists" is carried.
	ErrAccountExists = errors.New("account exists")

	// ErrNotFound is returned when no account matches the login email or
	// the authenticated account id.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned for a well-formed password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUpstream is returned when a store or upload I/O operation fails.
	ErrUpstream = errors.New("upstream failure")
)
