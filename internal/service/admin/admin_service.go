// Package admin implements the admin bootstrap state machine and the
// credential side of the session authority.  The system starts
// Uninitialized; the first bootstrap call with a credential creates
// the single admin identity and moves it to Initialized, after which
// ordinary login is the only accepted credential path.
package admin

import (
	"context"
	"errors"

	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/session"
	"github.com/iliyamo/garage-bay-booking/internal/utils"
)

// ErrBootstrapPayloadMissing is returned when bootstrap is invoked
// without a credential while the system is uninitialized.
var ErrBootstrapPayloadMissing = errors.New("password required to bootstrap admin")

// ErrInvalidCredential is returned when a login password does not
// match the stored hash.
var ErrInvalidCredential = errors.New("invalid credentials")

// IdentityStore is the subset of the admin repository the service
// needs.  Create must be exactly-once: concurrent calls yield one
// success and repository.ErrAlreadyInitialized for every loser.
type IdentityStore interface {
	Get(ctx context.Context) (*model.AdminIdentity, error)
	Create(ctx context.Context, email, passwordHash string) error
}

// Service glues the identity store, bcrypt hashing and the session
// authority together.  The authority is injected so handlers and
// middleware share one live session set.
type Service struct {
	identities IdentityStore
	sessions   *session.Authority
	bcryptCost int
}

// NewService constructs an admin Service.  Both dependencies must be
// non-nil.
func NewService(identities IdentityStore, sessions *session.Authority, bcryptCost int) *Service {
	if identities == nil || sessions == nil {
		panic("nil dependency passed to admin.NewService")
	}
	return &Service{identities: identities, sessions: sessions, bcryptCost: bcryptCost}
}

// Initialized reports whether the admin identity exists.  The check is
// a plain read and never mutates state, so it is safe to call
// repeatedly.
func (s *Service) Initialized(ctx context.Context) (bool, error) {
	_, err := s.identities.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotInitialized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Bootstrap performs the one-time Uninitialized -> Initialized
// transition and grants the first admin session.  The raw password is
// hashed with bcrypt before it reaches the store; losers of a
// concurrent bootstrap race receive repository.ErrAlreadyInitialized.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (utils.SessionToken, error) {
	if password == "" {
		return utils.SessionToken{}, ErrBootstrapPayloadMissing
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return utils.SessionToken{}, err
	}
	if err := s.identities.Create(ctx, email, hash); err != nil {
		return utils.SessionToken{}, err
	}
	return s.sessions.Grant()
}

// Login verifies the password against the stored hash and grants a
// session.  It returns repository.ErrNotInitialized when bootstrap has
// not happened yet and ErrInvalidCredential on a mismatch; bcrypt's
// comparison is constant-time-equivalent.
func (s *Service) Login(ctx context.Context, password string) (utils.SessionToken, error) {
	ident, err := s.identities.Get(ctx)
	if err != nil {
		return utils.SessionToken{}, err
	}
	if !utils.VerifyPassword(ident.PasswordHash, password) {
		return utils.SessionToken{}, ErrInvalidCredential
	}
	return s.sessions.Grant()
}

// Validate reports whether the token carries a live admin session.
func (s *Service) Validate(token string) bool {
	return s.sessions.Validate(token)
}

// Logout destroys the session named by the token.
func (s *Service) Logout(token string) {
	s.sessions.Revoke(token)
}
