package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chirp/cmd/identity"
	"chirp/cmd/internal/auth/token"
	"chirp/cmd/internal/upload"
	"chirp/cmd/security/password"
)

// Service orchestrates account operations. It owns account creation and
// password verification; token custody lives in the token manager and
// persistence in the store.
type Service struct {
	log     *slog.Logger
	store   identity.Store
	tokens  token.Manager
	uploads upload.Uploader
	hash    password.Params
}

// NewService constructs an account Service. A nil uploader disables image
// uploads (profile updates carrying an image will fail with ErrUpstream).
func NewService(log *slog.Logger, store identity.Store, tokens token.Manager, uploads upload.Uploader, hash password.Params) *Service {
	if log == nil {
		log = slog.Default()
	}
	if uploads == nil {
		uploads = upload.Disabled{}
	}
	return &Service{
		log:     log,
		store:   store,
		tokens:  tokens,
		uploads: uploads,
		hash:    hash,
	}
}

// SignupInput describes a registration request. All four fields are required.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Bio      string
}

// AuthResult is the outcome of a successful signup or login. Account is a
// sanitized view: the password hash is always cleared.
type AuthResult struct {
	Account  identity.Account
	Token    string
	TokenExp time.Time
}

// UpdateProfileInput carries a partial profile mutation. Nil fields are left
// untouched; a non-nil ProfilePic triggers an image upload before the store
// update is attempted.
type UpdateProfileInput struct {
	ProfilePic *string
	Bio        *string
	FullName   *string
}

// Signup registers a new account and issues a session token for it.
//
// The email existence pre-check and the create are not atomic; the store's
// uniqueness constraint is the second line of defense, and its conflict is
// mapped to ErrAccountExists as well.
func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	bio := strings.TrimSpace(in.Bio)
	if fullName == "" || email == "" || in.Password == "" || bio == "" {
		return AuthResult{}, ErrMissingFields
	}

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, ErrAccountExists
	case identity.IsNotFound(err):
		// Free to create.
	default:
		return AuthResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	hash, err := identity.HashPassword(in.Password, s.hash)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.Create(ctx, identity.CreateAccountInput{
		FullName:     fullName,
		Email:        email,
		Bio:          bio,
		PasswordHash: hash,
	})
	if err != nil {
		if identity.IsConflict(err) {
			// Lost the race to a concurrent signup for the same email.
			return AuthResult{}, ErrAccountExists
		}
		return AuthResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	signed, exp, err := s.tokens.Issue(created.ID, time.Now().UTC())
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("account.signup", "account_id", created.ID)
	return AuthResult{Account: sanitize(created), Token: signed, TokenExp: exp}, nil
}

// Login verifies credentials and issues a session token.
//
// An unknown email and a wrong password are distinct outcomes (ErrNotFound
// vs ErrInvalidCredentials); the differing messages are part of the wire
// contract even though they leak account existence.
func (s *Service) Login(ctx context.Context, email, pass string) (AuthResult, error) {
	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			return AuthResult{}, ErrNotFound
		}
		return AuthResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	ok, err := identity.VerifyPassword(pass, acc.PasswordHash, s.hash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	signed, exp, err := s.tokens.Issue(acc.ID, time.Now().UTC())
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("account.login", "account_id", acc.ID)
	return AuthResult{Account: sanitize(acc), Token: signed, TokenExp: exp}, nil
}

// UpdateProfile mutates the already-authenticated account. When an image is
// supplied, the upload runs first and the store update is only attempted
// after it succeeds; there is no partial-commit path.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (identity.Account, error) {
	fields := identity.UpdateAccountFields{
		FullName: in.FullName,
		Bio:      in.Bio,
	}

	if in.ProfilePic != nil && strings.TrimSpace(*in.ProfilePic) != "" {
		data, contentType, err := upload.DecodeImagePayload(*in.ProfilePic)
		if err != nil {
			return identity.Account{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		url, err := s.uploads.Upload(ctx, data, contentType)
		if err != nil {
			s.log.Error("account.update_profile.upload.fail", "err", err, "account_id", accountID)
			return identity.Account{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		fields.ProfilePicURL = &url
	}

	updated, err := s.store.UpdateByID(ctx, accountID, fields)
	if err != nil {
		if identity.IsNotFound(err) {
			return identity.Account{}, ErrNotFound
		}
		return identity.Account{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.log.Info("account.update_profile", "account_id", updated.ID, "image", fields.ProfilePicURL != nil)
	return sanitize(updated), nil
}

// sanitize clears secret fields from an outward-facing account view.
func sanitize(a identity.Account) identity.Account {
	a.PasswordHash = ""
	return a
}
