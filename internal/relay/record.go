package relay

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noble-assets/cctp-relay/internal/bridge"
)

// Record is the correlation record: the only externally observable linkage
// between the ledger's and the transport's nonce spaces. One record is
// emitted per successful request, append-only, never mutated or superseded.
// A retried request produces a new record with new nonces.
type Record struct {
	PrimaryNonce   bridge.Nonce
	AuxiliaryNonce bridge.Nonce
	Metadata       []byte
}

// Emitter receives correlation records. Emission runs inside the request's
// unit of work: an emitter error aborts the whole request.
type Emitter interface {
	Emit(Record) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Record) error

func (f EmitterFunc) Emit(r Record) error { return f(r) }

// LogEmitter writes each record as a structured deposit_for_burn_metadata
// event. Field names are part of the off-chain contract; relayer parsers key
// on them.
type LogEmitter struct {
	Logger zerolog.Logger
}

func (e LogEmitter) Emit(r Record) error {
	e.Logger.Info().
		Uint64("primary_nonce", uint64(r.PrimaryNonce)).
		Uint64("auxiliary_nonce", uint64(r.AuxiliaryNonce)).
		Str("metadata", hex.EncodeToString(r.Metadata)).
		Msg("deposit_for_burn_metadata")
	return nil
}

// MultiEmitter fans a record out to several emitters in order, stopping at
// the first error.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(r Record) error {
	for i, e := range m {
		if err := e.Emit(r); err != nil {
			return fmt.Errorf("emitter %d: %w", i, err)
		}
	}
	return nil
}
