// Package identity implements chirp's account foundation.
//
// It defines the canonical Account record, the persistence boundary used by
// the auth layers (Store), password hashing wrappers, and ID primitives.
//
// This package is intentionally dependency-light and security-first.
package identity
