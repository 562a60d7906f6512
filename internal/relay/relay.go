// Package relay implements the metadata burn relay: the producer-side
// component that accepts a burn request plus routing metadata, delegates the
// burn to the injected ledger, dispatches a correlated message through the
// injected transport, and emits the correlation record linking the two
// nonces. The relay holds no mutable state of its own beyond the immutable
// remote endpoint identity; each request is independent and runs to
// completion or total failure.
package relay

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/message"
)

// UnitOfWork runs fn so that either all of its externally visible effects
// persist or none do. The default is a passthrough. Failures before the burn
// commits are unwound by the relay itself (the custody transfer is handed
// back), so under the passthrough only a failure after the burn — a rejected
// transport send or a failed emitter — leaves the burn committed, matching
// the behavior of the deployed protocol. Hosts that can provide transactional
// execution supply their own runner via WithUnitOfWork to make the whole
// request all-or-nothing.
type UnitOfWork func(fn func() error) error

func passthrough(fn func() error) error { return fn() }

// Request is one burn-and-relay request. Sender is the host-authenticated
// caller identity; Version1 messages bind it into the payload. A zero
// DestinationCaller means anyone may trigger the mint and consume the
// auxiliary message on the destination.
type Request struct {
	Sender            bridge.Address
	Amount            *uint256.Int
	BurnToken         bridge.Address
	MintRecipient     bridge.Address
	DestinationCaller bridge.Address
	Metadata          []byte
}

// Relay is the metadata burn relay. The endpoint identity (remote domain and
// remote relay address) is fixed at construction; the configured remote relay
// is the sole recipient of auxiliary messages.
type Relay struct {
	ledger      bridge.BurnLedger
	transport   bridge.MessageTransport
	remote      bridge.Domain
	remoteRelay bridge.Address

	version message.Version
	emitter Emitter
	run     UnitOfWork
	log     zerolog.Logger
}

// Option configures a Relay at construction.
type Option func(*Relay)

// WithVersion selects the correlated-message layout. Default is Version1.
func WithVersion(v message.Version) Option {
	return func(r *Relay) { r.version = v }
}

// WithEmitter adds an emitter for correlation records. Multiple calls fan out
// in order.
func WithEmitter(e Emitter) Option {
	return func(r *Relay) {
		if r.emitter == nil {
			r.emitter = e
			return
		}
		if m, ok := r.emitter.(MultiEmitter); ok {
			r.emitter = append(m, e)
			return
		}
		r.emitter = MultiEmitter{r.emitter, e}
	}
}

// WithUnitOfWork supplies the host's transactional runner.
func WithUnitOfWork(run UnitOfWork) Option {
	return func(r *Relay) { r.run = run }
}

// WithLogger sets the relay's logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Relay) { r.log = log }
}

// New constructs a relay bound to a fixed remote endpoint. It fails if either
// collaborator is nil; no relay comes into existence in that case.
func New(ledger bridge.BurnLedger, transport bridge.MessageTransport, remote bridge.Domain, remoteRelay bridge.Address, opts ...Option) (*Relay, error) {
	if ledger == nil {
		return nil, ErrNilLedger
	}
	if transport == nil {
		return nil, ErrNilTransport
	}
	r := &Relay{
		ledger:      ledger,
		transport:   transport,
		remote:      remote,
		remoteRelay: remoteRelay,
		version:     message.Version1,
		run:         passthrough,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RequestTransfer executes one burn-and-relay request with pre-encoded
// metadata bytes and returns the primary burn nonce. This is the general
// entry point; RequestTransferRouting is a convenience encoder over it.
//
// The request either fully succeeds, with exactly one correlation record
// emitted, or fails with the first collaborator error wrapped in the matching
// sentinel and no record emitted. The relay never retries.
func (r *Relay) RequestTransfer(req Request) (bridge.Nonce, error) {
	if req.MintRecipient.IsZero() {
		return 0, ErrNilMintRecipient
	}

	reqID := uuid.NewString()
	log := r.log.With().Str("request_id", reqID).Logger()

	var primary bridge.Nonce
	err := r.run(func() error {
		if err := r.ledger.TransferIn(req.BurnToken, req.Sender, req.Amount); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		// From here until the burn commits, a failure must hand the custody
		// back to the caller: pre-burn failures are all-or-nothing even
		// without a transactional unit of work.
		if err := r.ledger.Authorize(req.BurnToken, req.Amount); err != nil {
			return r.refund(req, fmt.Errorf("%w: %w", ErrApprovalFailed, err))
		}

		var err error
		if req.DestinationCaller.IsZero() {
			primary, err = r.ledger.Burn(req.Amount, r.remote, req.MintRecipient, req.BurnToken)
		} else {
			primary, err = r.ledger.BurnWithCaller(req.Amount, r.remote, req.MintRecipient, req.BurnToken, req.DestinationCaller)
		}
		if err != nil {
			return r.refund(req, fmt.Errorf("%w: %w", ErrBurnFailed, err))
		}

		body, err := message.Encode(r.version, message.Fields{
			Nonce:    primary,
			Sender:   req.Sender,
			Metadata: req.Metadata,
		})
		if err != nil {
			return err
		}

		var auxiliary bridge.Nonce
		if req.DestinationCaller.IsZero() {
			auxiliary, err = r.transport.Send(r.remote, r.remoteRelay, body)
		} else {
			auxiliary, err = r.transport.SendWithCaller(r.remote, r.remoteRelay, req.DestinationCaller, body)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSendFailed, err)
		}

		rec := Record{
			PrimaryNonce:   primary,
			AuxiliaryNonce: auxiliary,
			Metadata:       append([]byte(nil), req.Metadata...),
		}
		if r.emitter != nil {
			if err := r.emitter.Emit(rec); err != nil {
				return fmt.Errorf("emit correlation record: %w", err)
			}
		}

		log.Debug().
			Uint64("primary_nonce", uint64(primary)).
			Uint64("auxiliary_nonce", uint64(auxiliary)).
			Stringer("digest", message.Digest(body)).
			Msg("request relayed")
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return 0, err
	}
	return primary, nil
}

// refund returns the custody pulled in by TransferIn when the request fails
// before the burn commits. If the refund itself fails, both reasons are
// surfaced.
func (r *Relay) refund(req Request, cause error) error {
	if err := r.ledger.TransferOut(req.BurnToken, req.Sender, req.Amount); err != nil {
		return errors.Join(cause, fmt.Errorf("refund custody: %w", err))
	}
	return cause
}

// RequestTransferRouting is the field-based entry point: it encodes the
// routing fields deterministically and delegates to RequestTransfer. Any
// metadata already present on the request is replaced by the encoding.
func (r *Relay) RequestTransferRouting(rt message.Routing, req Request) (bridge.Nonce, error) {
	req.Metadata = message.EncodeRouting(rt)
	return r.RequestTransfer(req)
}
