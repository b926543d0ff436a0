package identity

import (
	"chirp/cmd/security/password"
)

// Password hashing wrappers.
//
// identity delegates to cmd/security/password as the single source of truth
// for Argon2id parameters (defaults + env overrides) and hash encoding.

// HashPassword returns a PHC-style Argon2id hash string for plain.
// Any non-empty plaintext up to the configured maximum length is accepted.
func HashPassword(plain string, p password.Params) (string, error) {
	return p.Hash(plain)
}

// VerifyPassword checks plain against a PHC Argon2id hash.
// A well-formed mismatch is (false, nil); only malformed or out-of-bounds
// hashes produce an error.
func VerifyPassword(plain string, encodedPHC string, p password.Params) (bool, error) {
	return p.Verify(encodedPHC, plain)
}
