package accountinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresUserStore is the PostgreSQL implementation of account.UserStore.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    email         TEXT PRIMARY KEY,
//	    password_hash TEXT NOT NULL,
//	    requires_2fa  BOOLEAN NOT NULL DEFAULT FALSE
//	);
type PostgresUserStore struct {
	db     *sqlx.DB
	hasher *account.Hasher
}

// NewPostgresUserStore creates a new instance of the store.
func NewPostgresUserStore(db *sqlx.DB, hasher *account.Hasher) account.UserStore {
	return &PostgresUserStore{
		db:     db,
		hasher: hasher,
	}
}

type userRow struct {
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Requires2FA  bool   `db:"requires_2fa"`
}

// AddUser hashes the password and inserts the principal.
func (s *PostgresUserStore) AddUser(ctx context.Context, email account.Email, password account.Password, requires2FA bool) error {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (email, password_hash, requires_2fa) VALUES ($1, $2, $3)`
	_, err = s.db.ExecContext(ctx, query, email.String(), hash, requires2FA)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return account.ErrUserAlreadyExists()
		}
		return errx.Wrap(err, "failed to insert user", errx.TypeInternal)
	}
	return nil
}

// GetUser fetches a principal by normalized email.
func (s *PostgresUserStore) GetUser(ctx context.Context, email account.Email) (*account.User, error) {
	var row userRow
	query := `SELECT email, password_hash, requires_2fa FROM users WHERE email = $1`
	err := s.db.GetContext(ctx, &row, query, email.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to fetch user", errx.TypeInternal)
	}

	return &account.User{
		Email:        email,
		PasswordHash: row.PasswordHash,
		Requires2FA:  row.Requires2FA,
	}, nil
}

// ValidateUser verifies the credential pair against the stored hash.
func (s *PostgresUserStore) ValidateUser(ctx context.Context, email account.Email, password account.Password) error {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		return account.ErrInvalidCredentials()
	}
	return nil
}
