// Package token implements chirp's stateless session tokens.
//
// Tokens are signed JWTs (HS256) carrying the account id as the subject
// claim. Validity is recomputed per request from the signature and expiry;
// nothing is looked up in storage and there is no revocation list.
//
// For backward compatibility with tokens minted by older releases, the
// subject is resolved from an ordered list of candidate claim names:
// "userId" first, then the legacy "id".
package token
