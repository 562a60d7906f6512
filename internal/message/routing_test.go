package message

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/testutils"
)

func TestRoutingRoundTrip(t *testing.T) {
	rt := Routing{
		Channel:              3,
		DestinationRecipient: testutils.RandomAddress(t),
		Memo:                 []byte("forward to final hop"),
	}

	decoded, err := DecodeRouting(EncodeRouting(rt))
	require.NoError(t, err)
	assert.Equal(t, rt, decoded)
}

func TestRoutingLayout(t *testing.T) {
	recipient := testutils.RandomAddress(t)
	encoded := EncodeRouting(Routing{Channel: 7, DestinationRecipient: recipient, Memo: []byte("m")})

	require.Len(t, encoded, 8+bridge.AddressSize+1)
	assert.Equal(t, uint64(7), binary.BigEndian.Uint64(encoded[:8]))
	assert.Equal(t, recipient[:], encoded[8:8+bridge.AddressSize])
	assert.Equal(t, byte('m'), encoded[len(encoded)-1])
}

// Identical field sets must encode identically.
func TestRoutingDeterministic(t *testing.T) {
	recipient := testutils.RandomAddress(t)
	a := EncodeRouting(Routing{Channel: 11, DestinationRecipient: recipient, Memo: []byte("memo")})
	b := EncodeRouting(Routing{Channel: 11, DestinationRecipient: recipient, Memo: []byte("memo")})
	assert.Equal(t, a, b)
}

func TestRoutingEmptyMemo(t *testing.T) {
	rt := Routing{Channel: 0, DestinationRecipient: testutils.RandomAddress(t), Memo: []byte{}}
	decoded, err := DecodeRouting(EncodeRouting(rt))
	require.NoError(t, err)
	assert.Equal(t, rt, decoded)
}

func TestRoutingTooShort(t *testing.T) {
	_, err := DecodeRouting(make([]byte, 8+bridge.AddressSize-1))
	assert.ErrorIs(t, err, ErrMessageTooShort)
}
