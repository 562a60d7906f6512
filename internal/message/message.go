// Package message implements the correlated-message wire format: the
// byte-exact payload that binds a burn nonce to caller-supplied routing
// metadata. The framing is delimiter-free; every field except the trailing
// metadata has a fixed width, and the widths are a compatibility contract
// with downstream relayer parsers.
package message

import (
	"encoding/binary"
	"fmt"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/crypto"
)

// Version selects the message layout. The protocol evolved once: Version1
// added the sender identity between the nonce and the metadata.
type Version uint8

const (
	// Version0 frames a message as nonce(8, big-endian) || metadata.
	Version0 Version = iota
	// Version1 frames a message as nonce(8, big-endian) || sender(32) || metadata.
	Version1
)

const nonceSize = 8

func (v Version) valid() bool {
	return v == Version0 || v == Version1
}

// headerSize is the fixed-width portion preceding the metadata.
func (v Version) headerSize() int {
	if v == Version1 {
		return nonceSize + bridge.AddressSize
	}
	return nonceSize
}

// Fields is the decoded form of a correlated message. Sender is only
// meaningful for Version1; Version0 encoding ignores it and Version0 decoding
// leaves it zero.
type Fields struct {
	Nonce    bridge.Nonce
	Sender   bridge.Address
	Metadata []byte
}

// Encode serializes the fields in the fixed wire order for the given version.
// Metadata may be empty; it is carried verbatim, never copied through any
// re-encoding.
func Encode(v Version, f Fields) ([]byte, error) {
	if !v.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, v)
	}
	out := make([]byte, 0, v.headerSize()+len(f.Metadata))
	out = binary.BigEndian.AppendUint64(out, uint64(f.Nonce))
	if v == Version1 {
		out = append(out, f.Sender[:]...)
	}
	out = append(out, f.Metadata...)
	return out, nil
}

// Decode parses a correlated message for the given version. The input must be
// at least the fixed header; everything after it is metadata.
func Decode(v Version, b []byte) (Fields, error) {
	if !v.valid() {
		return Fields{}, fmt.Errorf("%w: %d", ErrUnknownVersion, v)
	}
	if len(b) < v.headerSize() {
		return Fields{}, fmt.Errorf("%w: have %d bytes, need at least %d", ErrMessageTooShort, len(b), v.headerSize())
	}

	f := Fields{Nonce: bridge.Nonce(binary.BigEndian.Uint64(b[:nonceSize]))}
	rest := b[nonceSize:]
	if v == Version1 {
		copy(f.Sender[:], rest[:bridge.AddressSize])
		rest = rest[bridge.AddressSize:]
	}
	f.Metadata = make([]byte, len(rest))
	copy(f.Metadata, rest)
	return f, nil
}

// Digest returns the Keccak-256 of an encoded message, used for log and store
// cross-referencing. It is not part of the wire format.
func Digest(encoded []byte) crypto.Hash {
	return crypto.KeccakData(encoded)
}
