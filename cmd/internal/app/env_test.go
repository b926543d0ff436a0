package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("CHIRP_TEST_STR", "  hello  ")
	if got := EnvString("CHIRP_TEST_STR", "def"); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := EnvString("CHIRP_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("CHIRP_TEST_BOOL", "true")
	if !EnvBool("CHIRP_TEST_BOOL", false) {
		t.Fatal("want true")
	}
	t.Setenv("CHIRP_TEST_BOOL", "nope")
	if !EnvBool("CHIRP_TEST_BOOL", true) {
		t.Fatal("invalid value must fall back to default")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("CHIRP_TEST_INT", "42")
	if got := EnvInt("CHIRP_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("CHIRP_TEST_INT", "-3")
	if got := EnvInt("CHIRP_TEST_INT", 7); got != 7 {
		t.Fatalf("non-positive must fall back, got %d", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("CHIRP_TEST_DUR", "90s")
	if got := EnvDuration("CHIRP_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("CHIRP_TEST_DUR", "bogus")
	if got := EnvDuration("CHIRP_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("got %v", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.HTTPAddr == "" {
		t.Fatal("empty HTTPAddr")
	}
	if cfg.ReadHeaderTimeout <= 0 || cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		t.Fatalf("non-positive timeout in defaults: %+v", cfg)
	}
	if cfg.MaxHeaderBytes <= 0 {
		t.Fatal("non-positive MaxHeaderBytes")
	}
}
