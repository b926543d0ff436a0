package identity

import (
	"context"
	"time"
)

// Account is chirp's canonical identity record.
//
// PasswordHash is stored server-side and must never be serialized in any
// outward-facing representation; outward views clear it (see auth layers).
type Account struct {
	ID       string
	FullName string
	Email    string
	Bio      string

	// ProfilePicURL is nil until the first successful image upload.
	ProfilePicURL *string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAccountInput describes a new account. The password arrives already
// hashed; stores never see plaintext credentials.
type CreateAccountInput struct {
	FullName     string
	Email        string
	Bio          string
	PasswordHash string
	Now          time.Time
}

// UpdateAccountFields carries a partial profile update. Nil fields are left
// untouched.
type UpdateAccountFields struct {
	FullName      *string
	Bio           *string
	ProfilePicURL *string
	Now           time.Time
}

// FindByIDOpts controls the projection of FindByID.
type FindByIDOpts struct {
	// ExcludePasswordHash leaves Account.PasswordHash empty in the result.
	// Request-gating lookups use this so the hash never travels further
	// than the credential checks that need it.
	ExcludePasswordHash bool
}

// Store is the account persistence boundary.
//
// Lookups return NotFoundError when no account matches. Create returns
// ConflictError when the normalized email is already taken; callers treat
// this as a second line of defense behind their own existence pre-check.
type Store interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string, opts FindByIDOpts) (Account, error)
	Create(ctx context.Context, in CreateAccountInput) (Account, error)
	UpdateByID(ctx context.Context, id string, fields UpdateAccountFields) (Account, error)
}
