package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager issues and verifies signed, time-bound session tokens.
type Manager interface {
	Issue(accountID string, now time.Time) (token string, exp time.Time, err error)
	Verify(token string, now time.Time) (accountID string, err error)
}

// sessionClaims is the wire payload. UserID is the primary subject claim;
// LegacyID is the claim name older releases signed.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId,omitempty"`
	LegacyID string `json:"id,omitempty"`
}

// subjectExtractors is the ordered claim-name fallback: the first extractor
// returning a non-empty value wins.
var subjectExtractors = []func(*sessionClaims) string{
	func(c *sessionClaims) string { return c.UserID },
	func(c *sessionClaims) string { return c.LegacyID },
}

type hs256Manager struct {
	secret []byte
	ttl    time.Duration
	skew   time.Duration
}

// NewHS256Manager builds a Manager signing with HMAC-SHA256.
func NewHS256Manager(cfg Config) (Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrConfig
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultConfig().TTL
	}
	skew := cfg.ClockSkew
	if skew < 0 {
		skew = 0
	}

	return &hs256Manager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		skew:   skew,
	}, nil
}

func (m *hs256Manager) Issue(accountID string, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(m.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: accountID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *hs256Manager) Verify(tokenStr string, now time.Time) (string, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	// Basic sanity bounds to avoid pathological inputs.
	if tokenStr == "" || len(tokenStr) > 4096 {
		return "", ErrInvalidToken
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.skew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		// Collapse every failure reason (malformed, expired, forged).
		return "", ErrInvalidToken
	}

	for _, extract := range subjectExtractors {
		if id := strings.TrimSpace(extract(&claims)); id != "" {
			return id, nil
		}
	}
	return "", ErrInvalidToken
}
