// Package store persists correlation records in a key-value store. The store
// is append-only: a record is written exactly once per primary nonce and is
// never updated or deleted.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/relay"
	"github.com/noble-assets/cctp-relay/pkg/db"
	"github.com/noble-assets/cctp-relay/pkg/db/pebble"
)

var (
	ErrRecordExists   = errors.New("correlation record already exists")
	ErrRecordNotFound = errors.New("correlation record not found")
	ErrStoreClosed    = errors.New("record store is closed")
)

const prefixRecord byte = 0x01

// Value layout: primaryNonce(8, big-endian) || auxiliaryNonce(8, big-endian) || metadata.
// Same delimiter-free framing discipline as the message codec.
const recordHeaderSize = 16

// Records is an append-only correlation-record store over a KVStore. It
// implements relay.Emitter so it can be wired directly into a relay.
type Records struct {
	db     db.KVStore
	mu     sync.Mutex // serializes Emit's existence check and write
	closed atomic.Bool
}

func NewRecords(kv db.KVStore) *Records {
	return &Records{db: kv}
}

// Emit appends a record keyed by its primary nonce. Appending a nonce that is
// already present fails: primary nonces are unique per ledger, so a duplicate
// means a caller bug, never a legitimate overwrite.
func (s *Records) Emit(rec relay.Record) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(rec.PrimaryNonce)

	_, err := s.db.Get(key)
	if err == nil {
		return fmt.Errorf("%w: primary nonce %d", ErrRecordExists, rec.PrimaryNonce)
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("check record: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Put(key, encodeRecord(rec)); err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// Get retrieves the record for a primary nonce.
func (s *Records) Get(primary bridge.Nonce) (relay.Record, error) {
	if s.closed.Load() {
		return relay.Record{}, ErrStoreClosed
	}
	value, err := s.db.Get(recordKey(primary))
	if errors.Is(err, pebble.ErrNotFound) {
		return relay.Record{}, fmt.Errorf("%w: primary nonce %d", ErrRecordNotFound, primary)
	}
	if err != nil {
		return relay.Record{}, fmt.Errorf("get record: %w", err)
	}
	return decodeRecord(value)
}

// All returns every record in ascending primary-nonce order.
func (s *Records) All() ([]relay.Record, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	iter, err := s.db.NewIterator([]byte{prefixRecord}, []byte{prefixRecord + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var records []relay.Record
	for iter.Next() {
		value, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		rec, err := decodeRecord(value)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close marks the store closed. The underlying KVStore is owned by the caller
// and is not closed here.
func (s *Records) Close() {
	s.closed.Store(true)
}

func recordKey(primary bridge.Nonce) []byte {
	key := make([]byte, 9)
	key[0] = prefixRecord
	binary.BigEndian.PutUint64(key[1:], uint64(primary))
	return key
}

func encodeRecord(rec relay.Record) []byte {
	value := make([]byte, 0, recordHeaderSize+len(rec.Metadata))
	value = binary.BigEndian.AppendUint64(value, uint64(rec.PrimaryNonce))
	value = binary.BigEndian.AppendUint64(value, uint64(rec.AuxiliaryNonce))
	value = append(value, rec.Metadata...)
	return value
}

func decodeRecord(value []byte) (relay.Record, error) {
	if len(value) < recordHeaderSize {
		return relay.Record{}, fmt.Errorf("malformed record value: %d bytes", len(value))
	}
	rec := relay.Record{
		PrimaryNonce:   bridge.Nonce(binary.BigEndian.Uint64(value[:8])),
		AuxiliaryNonce: bridge.Nonce(binary.BigEndian.Uint64(value[8:16])),
		Metadata:       make([]byte, len(value)-recordHeaderSize),
	}
	copy(rec.Metadata, value[recordHeaderSize:])
	return rec, nil
}
