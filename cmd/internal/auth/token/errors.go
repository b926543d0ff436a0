package token

import "errors"

var (
	// ErrInvalidToken is returned for every verification failure: malformed,
	// expired, forged, or missing subject. Callers classify all of these
	// uniformly and must not learn the underlying reason.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid token config")
)
