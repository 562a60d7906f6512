package pebble

import (
	"errors"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// KVStore implements db.KVStore on top of a pebble database.
type KVStore struct {
	db     *pebble.DB
	closed atomic.Bool
}

// NewKVStore opens (creating if necessary) a pebble database at path.
func NewKVStore(path string) (*KVStore, error) {
	opts := &pebble.Options{
		Cache: pebble.NewCache(32 * 1024 * 1024),
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

// NewMemKVStore opens an in-memory pebble database, used in tests.
func NewMemKVStore() (*KVStore, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Get(key []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	value, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (s *KVStore) Put(key, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Set(key, value, pebble.Sync)
}

func (s *KVStore) Delete(key []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Delete(key, pebble.Sync)
}

func (s *KVStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
