// Package allocator implements the deterministic bay assignment policy.
// It is pure: it never touches storage, so callers are responsible for
// computing the occupied set and persisting the result under whatever
// mutual exclusion the slot requires.
package allocator

import "errors"

// ErrNoCapacity is returned when every bay in 1..bayCount is occupied.
// Callers surface it to clients unchanged; retrying without picking a
// different slot or garage cannot succeed.
var ErrNoCapacity = errors.New("no bay available")

// FirstFree scans bay numbers 1..bayCount in ascending order and
// returns the first one absent from occupied.  The ascending scan makes
// the assignment stable and independent of request arrival order.
func FirstFree(bayCount uint32, occupied map[uint32]bool) (uint32, error) {
	for bay := uint32(1); bay <= bayCount; bay++ {
		if !occupied[bay] {
			return bay, nil
		}
	}
	return 0, ErrNoCapacity
}
