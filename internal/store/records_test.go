package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/relay"
	"github.com/noble-assets/cctp-relay/internal/testutils"
	"github.com/noble-assets/cctp-relay/pkg/db/pebble"
)

func newRecords(t *testing.T) *Records {
	kv, err := pebble.NewMemKVStore()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() }) //nolint:errcheck
	return NewRecords(kv)
}

func TestEmitAndGet(t *testing.T) {
	s := newRecords(t)
	rec := relay.Record{
		PrimaryNonce:   7,
		AuxiliaryNonce: 3,
		Metadata:       testutils.RandomBytes(t, 32),
	}

	require.NoError(t, s.Emit(rec))

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Get(8)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestEmitEmptyMetadata(t *testing.T) {
	s := newRecords(t)
	rec := relay.Record{PrimaryNonce: 1, AuxiliaryNonce: 1, Metadata: []byte{}}

	require.NoError(t, s.Emit(rec))
	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

// The store is append-only: a primary nonce is written once, ever.
func TestEmitDuplicateRejected(t *testing.T) {
	s := newRecords(t)
	rec := relay.Record{PrimaryNonce: 7, AuxiliaryNonce: 3, Metadata: []byte("a")}

	require.NoError(t, s.Emit(rec))
	rec.Metadata = []byte("b")
	assert.ErrorIs(t, s.Emit(rec), ErrRecordExists)

	// The original record is untouched.
	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got.Metadata)
}

// Concurrent emits of the same primary nonce must resolve to exactly one
// stored record; the rest get ErrRecordExists.
func TestEmitConcurrentDuplicates(t *testing.T) {
	s := newRecords(t)
	const writers = 8

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Emit(relay.Record{
				PrimaryNonce:   7,
				AuxiliaryNonce: bridge.Nonce(i),
				Metadata:       []byte{byte(i)},
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrRecordExists)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, rejected)

	_, err := s.Get(7)
	assert.NoError(t, err)
}

func TestAllOrderedByPrimaryNonce(t *testing.T) {
	s := newRecords(t)
	for _, n := range []uint64{300, 2, 41} {
		require.NoError(t, s.Emit(relay.Record{
			PrimaryNonce:   bridge.Nonce(n),
			AuxiliaryNonce: bridge.Nonce(n + 1),
			Metadata:       []byte{},
		}))
	}

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, bridge.Nonce(2), records[0].PrimaryNonce)
	assert.Equal(t, bridge.Nonce(41), records[1].PrimaryNonce)
	assert.Equal(t, bridge.Nonce(300), records[2].PrimaryNonce)
}

func TestClosedStore(t *testing.T) {
	s := newRecords(t)
	s.Close()

	assert.ErrorIs(t, s.Emit(relay.Record{PrimaryNonce: 1}), ErrStoreClosed)
	_, err := s.Get(1)
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = s.All()
	assert.ErrorIs(t, err, ErrStoreClosed)
}
