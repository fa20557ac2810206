// Package session implements the server-side session authority that
// gates admin-only booking mutations.  Sessions are ephemeral: the
// live set is held in process memory, never in the durable store, and
// an Authority instance is injected into every handler that needs the
// admin capability rather than living in package state.
package session

import (
	"sync"
	"time"

	"github.com/iliyamo/garage-bay-booking/internal/utils"
)

// Authority owns the set of live admin sessions.  Each session is an
// opaque random id wrapped in a signed JWT; the JWT keeps tokens
// tamper-proof while the in-memory set makes revocation immediate. A
// destroyed session fails Validate on the very next call, with no
// cached capability to drain.
type Authority struct {
	secret string
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]time.Time // session id -> expiry
}

// NewAuthority constructs an Authority signing tokens with the given
// secret and granting sessions that expire after ttl.
func NewAuthority(secret string, ttl time.Duration) *Authority {
	return &Authority{
		secret: secret,
		ttl:    ttl,
		active: make(map[string]time.Time),
	}
}

// Grant creates a new admin session and returns its signed token.
func (a *Authority) Grant() (utils.SessionToken, error) {
	sid, err := utils.RandomHex(32)
	if err != nil {
		return utils.SessionToken{}, err
	}
	tok, err := utils.NewSessionToken(a.secret, sid, a.ttl)
	if err != nil {
		return utils.SessionToken{}, err
	}
	a.mu.Lock()
	a.active[sid] = tok.Exp
	a.purgeExpiredLocked()
	a.mu.Unlock()
	return tok, nil
}

// Validate reports whether the token identifies a live, unexpired
// admin session.  Anything else (malformed token, bad signature,
// revoked or expired session) yields false.
func (a *Authority) Validate(raw string) bool {
	sid, err := utils.ParseSessionID(a.secret, raw)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.active[sid]
	if !ok {
		return false
	}
	if now.After(exp) {
		delete(a.active, sid)
		return false
	}
	return true
}

// Revoke destroys the session named by the token.  Revoking an
// unknown or already-revoked token is a no-op.
func (a *Authority) Revoke(raw string) {
	sid, err := utils.ParseSessionID(a.secret, raw)
	if err != nil {
		return
	}
	a.mu.Lock()
	delete(a.active, sid)
	a.mu.Unlock()
}

// purgeExpiredLocked drops expired entries so the live set does not
// grow without bound.  Callers must hold mu.
func (a *Authority) purgeExpiredLocked() {
	now := time.Now().UTC()
	for sid, exp := range a.active {
		if now.After(exp) {
			delete(a.active, sid)
		}
	}
}
