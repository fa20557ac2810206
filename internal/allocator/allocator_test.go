package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFree(t *testing.T) {
	cases := []struct {
		name     string
		bayCount uint32
		occupied map[uint32]bool
		want     uint32
		wantErr  error
	}{
		{name: "empty garage", bayCount: 2, occupied: map[uint32]bool{}, want: 1},
		{name: "first bay taken", bayCount: 2, occupied: map[uint32]bool{1: true}, want: 2},
		{name: "gap is reused", bayCount: 3, occupied: map[uint32]bool{1: true, 3: true}, want: 2},
		{name: "full garage", bayCount: 2, occupied: map[uint32]bool{1: true, 2: true}, wantErr: ErrNoCapacity},
		{name: "zero capacity", bayCount: 0, occupied: map[uint32]bool{}, wantErr: ErrNoCapacity},
		{name: "occupied outside range ignored", bayCount: 2, occupied: map[uint32]bool{1: true, 2: true, 7: true}, wantErr: ErrNoCapacity},
		{name: "nil occupied", bayCount: 1, occupied: nil, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bay, err := FirstFree(tc.bayCount, tc.occupied)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, bay)
		})
	}
}

// The same capacity and occupied set must always produce the same bay.
func TestFirstFreeDeterministic(t *testing.T) {
	occupied := map[uint32]bool{2: true, 4: true}
	first, err := FirstFree(5, occupied)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		bay, err := FirstFree(5, occupied)
		require.NoError(t, err)
		assert.Equal(t, first, bay)
	}
}
