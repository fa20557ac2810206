// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between different failure
// scenarios without parsing driver error strings. For example,
// ErrBayConflict signals that an insert or update lost the race for a
// bay and the caller should recompute the occupied set and retry.
package repository

import "strings"

// isDuplicateKey reports whether the error is a MySQL duplicate-key
// violation (error 1062). The bookings table enforces bay uniqueness
// per active slot through a generated column, and the admin_identity
// table enforces its single row through a fixed primary key, so 1062
// is the storage-level signal for both conflicts.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
