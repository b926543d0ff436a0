package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements account persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - A unique index on email_norm backs the email invariant; unique violations
//   are mapped to ConflictError so racing signups collapse to "exists".
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the account store (default "chirp").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "chirp",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

const accountColumns = `id, full_name, email, bio, profile_pic_url, password_hash, created_at, updated_at`

// FindByEmail looks an account up by normalized email.
// The full record (including the password hash) is returned: the only caller
// is the credential path, which needs the hash to verify a login.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	const op = "identity.FindByEmail"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	norm := NormalizeEmail(email)
	if norm == "" {
		return Account{}, pgInvalid(op, "empty email")
	}

	accounts := pgIdent(s.schema, "accounts")

	row := s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM `+accounts+` WHERE email_norm = $1`,
		norm,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return a, nil
}

// FindByID resolves an account by id. With opts.ExcludePasswordHash the hash
// column is not selected at all, so it cannot leak into the projection.
func (s *PostgresStore) FindByID(ctx context.Context, id string, opts FindByIDOpts) (Account, error) {
	const op = "identity.FindByID"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, pgInvalid(op, "empty id")
	}

	accounts := pgIdent(s.schema, "accounts")

	cols := accountColumns
	if opts.ExcludePasswordHash {
		cols = `id, full_name, email, bio, profile_pic_url, '' AS password_hash, created_at, updated_at`
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+cols+` FROM `+accounts+` WHERE id = $1`,
		id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return a, nil
}

// Create inserts a new account row. Email uniqueness violations are mapped
// to ConflictError{Field: "email"}.
func (s *PostgresStore) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.Create"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	bio := strings.TrimSpace(in.Bio)
	if fullName == "" || email == "" || bio == "" {
		return Account{}, pgInvalid(op, "full_name, email and bio are required")
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, pgInvalid(op, "password_hash is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Account{}, err
	}

	accounts := pgIdent(s.schema, "accounts")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+accounts+` (
		     id, full_name, email, email_norm, bio, password_hash, created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		id,
		fullName,
		email,
		NormalizeEmail(email),
		bio,
		in.PasswordHash,
		now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return Account{}, ConflictError{Op: op, Field: field}
		}
		return Account{}, err
	}

	return Account{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		Bio:          bio,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateByID applies a partial profile update and returns the updated record.
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, fields UpdateAccountFields) (Account, error) {
	const op = "identity.UpdateByID"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, pgInvalid(op, "empty id")
	}

	now := fields.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	accounts := pgIdent(s.schema, "accounts")

	// COALESCE keeps columns untouched for nil fields; the single statement
	// avoids a read-modify-write window between concurrent updates.
	row := s.pool.QueryRow(ctx,
		`UPDATE `+accounts+` SET
		     full_name       = COALESCE($2, full_name),
		     bio             = COALESCE($3, bio),
		     profile_pic_url = COALESCE($4, profile_pic_url),
		     updated_at      = $5
		  WHERE id = $1
		  RETURNING `+accountColumns,
		id,
		pgTrimPtr(fields.FullName),
		pgTrimPtr(fields.Bio),
		pgTrimPtr(fields.ProfilePicURL),
		now,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return a, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.Bio,
		&a.ProfilePicURL,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func pgTrimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names; fall back to substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))
	switch {
	case c == "uq_accounts_email_norm" || strings.Contains(c, "email"):
		return "email", true
	default:
		return "unique", true
	}
}
