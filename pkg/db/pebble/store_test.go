package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoreBasicOperations(t *testing.T) {
	store, err := NewMemKVStore()
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	err = store.Put([]byte("k1"), []byte("v1"))
	require.NoError(t, err)

	got, err := store.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = store.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Delete([]byte("k1"))
	require.NoError(t, err)
	_, err = store.Get([]byte("k1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStoreClosed(t *testing.T) {
	store, err := NewMemKVStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrClosed)
	err = store.Put([]byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.NewIterator(nil, nil)
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice is a no-op.
	assert.NoError(t, store.Close())
}

func TestBatchAtomicCommit(t *testing.T) {
	store, err := NewMemKVStore()
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))

	// Nothing visible before commit.
	_, err = store.Get([]byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, batch.Commit())

	got, err := store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	// A committed batch rejects further use.
	assert.ErrorIs(t, batch.Put([]byte("c"), []byte("3")), ErrBatchDone)
	assert.ErrorIs(t, batch.Commit(), ErrBatchDone)
}

func TestIteratorRange(t *testing.T) {
	store, err := NewMemKVStore()
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	pairs := map[string]string{"a1": "x", "a2": "y", "b1": "z"}
	for k, v := range pairs {
		require.NoError(t, store.Put([]byte(k), []byte(v)))
	}

	iter, err := store.NewIterator([]byte("a"), []byte("b"))
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a1", "a2"}, keys)
}
