package password

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Params controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// MaxPasswordLength bounds plaintext size (runes). Any non-empty
	// password up to this length is accepted; there is no minimum policy
	// beyond non-emptiness.
	MaxPasswordLength int
}

// DefaultParams returns a strong baseline suitable for interactive logins.
// Values can be overridden via env.
func DefaultParams() Params {
	// CPU-aware parallelism, clamped to [1..4] to keep resource usage
	// predictable in containers.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Params{
		MemoryKiB:   64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above; safe conversion.
		SaltLength:  16,
		KeyLength:   32,

		MaxPasswordLength: 1024,
	}
}

// FromEnv loads hashing parameters from environment variables.
//
// Env surface:
// - CHIRP_ARGON2_MEMORY_KIB
// - CHIRP_ARGON2_ITERATIONS
// - CHIRP_ARGON2_PARALLELISM
// - CHIRP_ARGON2_SALT_LEN
// - CHIRP_ARGON2_KEY_LEN
// - CHIRP_PASSWORD_MAX_LEN
func FromEnv() (Params, error) {
	p := DefaultParams()

	if v, ok := os.LookupEnv("CHIRP_ARGON2_MEMORY_KIB"); ok {
		u, err := atou32(v, 8*1024, 1024*1024) // 8 MiB .. 1 GiB
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_ARGON2_MEMORY_KIB: %w", err)
		}
		p.MemoryKiB = u
	}

	if v, ok := os.LookupEnv("CHIRP_ARGON2_ITERATIONS"); ok {
		u, err := atou32(v, 1, 20)
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_ARGON2_ITERATIONS: %w", err)
		}
		p.Iterations = u
	}

	if v, ok := os.LookupEnv("CHIRP_ARGON2_PARALLELISM"); ok {
		u, err := atou32(v, 1, 255)
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_ARGON2_PARALLELISM: %w", err)
		}
		p.Parallelism = uint8(u) // #nosec G115 -- bounded to [1..255] by atou32.
	}

	if v, ok := os.LookupEnv("CHIRP_ARGON2_SALT_LEN"); ok {
		u, err := atou32(v, 8, 64)
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_ARGON2_SALT_LEN: %w", err)
		}
		p.SaltLength = u
	}

	if v, ok := os.LookupEnv("CHIRP_ARGON2_KEY_LEN"); ok {
		u, err := atou32(v, 16, 64)
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_ARGON2_KEY_LEN: %w", err)
		}
		p.KeyLength = u
	}

	if v, ok := os.LookupEnv("CHIRP_PASSWORD_MAX_LEN"); ok {
		n, err := atoiPositive(v, 1, 4096)
		if err != nil {
			return Params{}, fmt.Errorf("CHIRP_PASSWORD_MAX_LEN: %w", err)
		}
		p.MaxPasswordLength = n
	}

	return p, nil
}

func atoiPositive(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}

func atou32(s string, minVal, maxVal uint32) (uint32, error) {
	s = strings.TrimSpace(s)
	u64, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}

	u := uint32(u64)
	if u < minVal || u > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return u, nil
}
