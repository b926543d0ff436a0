package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no database is configured
// (dev mode) and by unit tests. A single mutex serializes the existence
// check and insert, so the email invariant holds without a DB constraint.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]Account
	byEmail map[string]string // email_norm -> id
}

// NewMemoryStore constructs an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

// FindByEmail looks an account up by normalized email.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	const op = "identity.FindByEmail"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	norm := NormalizeEmail(email)
	if norm == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty email"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[norm]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	return s.byID[id], nil
}

// FindByID resolves an account by id, optionally excluding the password hash.
func (s *MemoryStore) FindByID(ctx context.Context, id string, opts FindByIDOpts) (Account, error) {
	const op = "identity.FindByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	if opts.ExcludePasswordHash {
		a.PasswordHash = ""
	}
	return a, nil
}

// Create inserts a new account, enforcing email uniqueness under the lock.
func (s *MemoryStore) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	bio := strings.TrimSpace(in.Bio)
	if fullName == "" || email == "" || bio == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "full_name, email and bio are required"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password_hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Account{}, err
	}

	norm := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[norm]; exists {
		return Account{}, ConflictError{Op: op, Field: "email"}
	}

	a := Account{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		Bio:          bio,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[id] = a
	s.byEmail[norm] = id
	return a, nil
}

// UpdateByID applies a partial profile update and returns the updated record.
func (s *MemoryStore) UpdateByID(ctx context.Context, id string, fields UpdateAccountFields) (Account, error) {
	const op = "identity.UpdateByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty id"}
	}

	now := fields.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}

	if v := memTrimPtr(fields.FullName); v != nil {
		a.FullName = *v
	}
	if v := memTrimPtr(fields.Bio); v != nil {
		a.Bio = *v
	}
	if v := memTrimPtr(fields.ProfilePicURL); v != nil {
		a.ProfilePicURL = v
	}
	a.UpdatedAt = now

	s.byID[id] = a
	return a, nil
}

func memTrimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
