// Package password provides password hashing and verification for chirp.
//
// It implements Argon2id hashing with a PHC-style encoded string format.
// The salt and cost parameters are embedded in the hash string, so
// verification needs no storage beyond the hash itself.
//
// Security notes:
// - Hash strings are treated as untrusted input during Verify and are validated accordingly.
// - Verification refuses hashes whose cost parameters exceed reasonable bounds.
package password
