package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/garage-bay-booking/internal/model"
)

// ErrNotInitialized is returned when no admin identity has been
// bootstrapped yet.
var ErrNotInitialized = errors.New("admin identity not initialized")

// ErrAlreadyInitialized is returned when a bootstrap attempt runs
// against a system that already holds its admin identity.  Under
// concurrent bootstrap attempts exactly one insert wins; every loser
// receives this error.
var ErrAlreadyInitialized = errors.New("admin identity already initialized")

// AdminRepo persists the single admin identity.  The admin_identity
// table has a fixed primary key (id = 1), so the database itself
// guarantees that the Uninitialized -> Initialized transition happens
// at most once no matter how many processes race on it.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// Get loads the admin identity.  It returns ErrNotInitialized when
// bootstrap has not happened yet.  Reading never mutates state, so
// repeated status checks are side-effect free.
func (r *AdminRepo) Get(ctx context.Context) (*model.AdminIdentity, error) {
	const q = `SELECT email, password_hash, created_at FROM admin_identity WHERE id = 1`
	var a model.AdminIdentity
	err := r.db.QueryRowContext(ctx, q).Scan(&a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return &a, nil
}

// Create persists the admin identity exactly once.  A duplicate-key
// error means another bootstrap attempt won the race and is reported
// as ErrAlreadyInitialized.
func (r *AdminRepo) Create(ctx context.Context, email, passwordHash string) error {
	const q = `INSERT INTO admin_identity (id, email, password_hash) VALUES (1, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, email, passwordHash); err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyInitialized
		}
		return err
	}
	return nil
}
