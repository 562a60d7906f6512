package bridge

import (
	"encoding/hex"
	"fmt"
)

const AddressSize = 32

// Address is the fixed-width opaque identifier used for every account-like
// value in the protocol: tokens, mint recipients, relay counterparts and
// destination callers. Networks with shorter native addresses left-pad with
// zero bytes.
type Address [AddressSize]byte

// ZeroAddress means "null" or "unrestricted" depending on the field it
// appears in.
var ZeroAddress = Address{}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// AddressFromBytes copies b into an Address. b must be exactly AddressSize
// bytes.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}
