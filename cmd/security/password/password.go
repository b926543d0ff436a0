package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Version = 19 // argon2.Version is 0x13 (19)
)

// Hash hashes a password using Argon2id with a fresh random salt and returns
// an encoded hash string.
// Format:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
func (p Params) Hash(password string) (string, error) {
	if err := p.validate(password); err != nil {
		return "", err
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		p.Iterations,
		p.MemoryKiB,
		p.Parallelism,
		p.KeyLength,
	)

	b64 := base64.RawStdEncoding
	enc := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		p.MemoryKiB,
		p.Iterations,
		p.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	)

	return enc, nil
}

// Verify checks whether password matches the given encoded hash.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed/unsupported hashes.
func (p Params) Verify(encodedHash, password string) (bool, error) {
	got, salt, expected, err := decode(encodedHash)
	if err != nil {
		return false, err
	}

	// Anti-DoS boundary: refuse to verify if the embedded params exceed our
	// configured maximums by a large margin (prevents attacker-controlled
	// hash strings from causing pathological resource usage).
	if !withinReasonableBounds(got, p) {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		got.Iterations,
		got.MemoryKiB,
		got.Parallelism,
		uint32(len(expected)), // #nosec G115 -- expected length is bounded by decode(); safe conversion.
	)

	// Constant-time compare.
	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

func (p Params) validate(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	// Count characters (runes), not bytes, to be user-friendly.
	if utf8.RuneCountInString(password) > p.MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func withinReasonableBounds(got Params, limits Params) bool {
	// Allow verifying hashes generated with older/smaller settings,
	// but reject wildly larger settings.
	if got.MemoryKiB > limits.MemoryKiB*2 {
		return false
	}
	if got.Iterations > limits.Iterations*2 {
		return false
	}
	if got.Parallelism > limits.Parallelism*2 {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

// decode parses the encoded hash and returns params, salt and expected key.
func decode(encoded string) (Params, []byte, []byte, error) {
	// Expected:
	// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}

	if parts[2] != "v=19" {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	hash, err := b64.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}

	got := Params{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par), // #nosec G115 -- bounded above; safe conversion.
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(hash)),
	}

	return got, salt, hash, nil
}
