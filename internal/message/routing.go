package message

import (
	"encoding/binary"
	"fmt"

	"github.com/noble-assets/cctp-relay/internal/bridge"
)

// Routing is the decomposed form of the caller-supplied metadata for the
// convenience entry point: an IBC-style forwarding instruction. Encoding is
// deterministic and delimiter-free so that two identical field sets always
// produce identical bytes.
//
// Wire order: channel(8, big-endian) || destinationRecipient(32) || memo.
type Routing struct {
	Channel              uint64
	DestinationRecipient bridge.Address
	Memo                 []byte
}

const routingHeaderSize = 8 + bridge.AddressSize

// EncodeRouting serializes the routing fields into metadata bytes. The result
// is what a caller of the raw entry point would pass directly; both entry
// points therefore produce byte-identical correlated messages for equivalent
// inputs.
func EncodeRouting(rt Routing) []byte {
	out := make([]byte, 0, routingHeaderSize+len(rt.Memo))
	out = binary.BigEndian.AppendUint64(out, rt.Channel)
	out = append(out, rt.DestinationRecipient[:]...)
	out = append(out, rt.Memo...)
	return out
}

// DecodeRouting parses metadata bytes produced by EncodeRouting.
func DecodeRouting(b []byte) (Routing, error) {
	if len(b) < routingHeaderSize {
		return Routing{}, fmt.Errorf("%w: have %d bytes, need at least %d", ErrMessageTooShort, len(b), routingHeaderSize)
	}
	rt := Routing{Channel: binary.BigEndian.Uint64(b[:8])}
	copy(rt.DestinationRecipient[:], b[8:routingHeaderSize])
	rt.Memo = make([]byte, len(b)-routingHeaderSize)
	copy(rt.Memo, b[routingHeaderSize:])
	return rt, nil
}
