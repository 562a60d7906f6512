package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromBytes(t *testing.T) {
	b := make([]byte, AddressSize)
	b[0] = 0xab
	a, err := AddressFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), a[0])
	assert.False(t, a.IsZero())

	_, err = AddressFromBytes(b[:20])
	assert.Error(t, err)
}

func TestZeroAddress(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())
	assert.Equal(t,
		"0x0000000000000000000000000000000000000000000000000000000000000000",
		ZeroAddress.String())
}
