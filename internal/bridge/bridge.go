// Package bridge defines the primitives shared across the relay and the
// interfaces of its two external collaborators: the burn ledger that destroys
// tokens on the source network, and the message transport that carries
// authenticated payloads to the destination network. Both are injected and
// treated as already-correct: nonce uniqueness and monotonicity are their
// contract, relied upon here and never re-checked.
package bridge

import "github.com/holiman/uint256"

// Domain identifies a network. The value is opaque to the relay.
type Domain uint32

// Nonce is a sequence number issued by a collaborator. The ledger and the
// transport each run their own independent nonce space.
type Nonce uint64

// BurnLedger destroys tokens on the source network and authorizes an
// equivalent mint on the destination, issuing a unique nonce per burn.
//
// TransferIn moves amount of token from the caller into the ledger's custody
// for the current request; TransferOut hands custody back, used to unwind a
// request that fails after the transfer but before the burn commits.
// Authorize permits the ledger to debit the custody balance. Burn executes
// the burn-and-bridge operation atomically: it either returns a fresh nonce
// or fails with no effect. BurnWithCaller additionally restricts who may
// trigger the mint on the destination.
type BurnLedger interface {
	TransferIn(token, from Address, amount *uint256.Int) error
	TransferOut(token, to Address, amount *uint256.Int) error
	Authorize(token Address, amount *uint256.Int) error
	Burn(amount *uint256.Int, destination Domain, mintRecipient, token Address) (Nonce, error)
	BurnWithCaller(amount *uint256.Int, destination Domain, mintRecipient, token Address, destinationCaller Address) (Nonce, error)
}

// MessageTransport is the authenticated messaging channel between networks.
// Send dispatches body to recipient on the destination domain and returns the
// transport's own nonce for the message. SendWithCaller restricts consumption
// of the message to destinationCaller.
type MessageTransport interface {
	Send(destination Domain, recipient Address, body []byte) (Nonce, error)
	SendWithCaller(destination Domain, recipient Address, destinationCaller Address, body []byte) (Nonce, error)
}
