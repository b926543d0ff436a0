package password

import (
	"errors"
	"strings"
	"testing"
)

func testParams() Params {
	// Small costs so the unit test suite stays fast.
	p := DefaultParams()
	p.MemoryKiB = 8 * 1024
	p.Iterations = 1
	p.Parallelism = 1
	return p
}

func TestHashAndVerify_OK(t *testing.T) {
	p := testParams()

	h, err := p.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", h)
	}

	ok, err := p.Verify(h, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	p := testParams()

	h, err := p.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := p.Verify(h, "wrong password")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	p := testParams()

	h1, err := p.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := p.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for same plaintext (random salt)")
	}
}

func TestHash_RejectsEmptyAndOverlong(t *testing.T) {
	p := testParams()
	p.MaxPasswordLength = 8

	if _, err := p.Hash(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("expected ErrPasswordEmpty, got %v", err)
	}
	if _, err := p.Hash("way too long for the cap"); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	// Single character is a valid plaintext.
	if _, err := p.Hash("x"); err != nil {
		t.Fatalf("expected ok for 1-char password, got %v", err)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	p := testParams()

	cases := []string{
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=0,t=1,p=1$AAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAAAAAAAAAAAAAAAAAAAA",
	}
	for _, enc := range cases {
		ok, err := p.Verify(enc, "whatever")
		if !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("Verify(%q): expected ErrInvalidHash, got %v", enc, err)
		}
		if ok {
			t.Fatalf("Verify(%q): expected false", enc)
		}
	}
}

func TestVerify_RefusesOversizedParams(t *testing.T) {
	p := testParams()

	// A hash claiming 10x the configured memory must be refused, not computed.
	big := DefaultParams()
	big.MemoryKiB = p.MemoryKiB * 10
	big.Iterations = 1
	big.Parallelism = 1
	h, err := big.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := p.Verify(h, "secret1")
	if !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if ok {
		t.Fatalf("expected false")
	}
}
