package testutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noble-assets/cctp-relay/internal/bridge"
)

func RandomAddress(t *testing.T) bridge.Address {
	var a bridge.Address
	_, err := rand.Read(a[:])
	require.NoError(t, err)
	return a
}

func RandomBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}
