package model

import "time"

// AdminIdentity is the single administrator account.  At most one row
// ever exists; it is created exactly once during first-run bootstrap
// and is immutable afterwards.  Only a bcrypt hash of the password is
// stored, never the plain text.
//
// Fields:
//  Email        – optional contact address bound to the credential.
//  PasswordHash – bcrypt hash of the admin password.
//  CreatedAt    – when bootstrap happened.
type AdminIdentity struct {
	Email        string    // admin_identity.email
	PasswordHash string    // admin_identity.password_hash
	CreatedAt    time.Time // admin_identity.created_at
}
