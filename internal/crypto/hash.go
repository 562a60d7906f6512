package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

const HashSize = 32

type Hash [HashSize]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// KeccakData hashes the input data using Keccak-256.
func KeccakData(data []byte) Hash {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	hashed := hash.Sum(nil)

	var result Hash
	copy(result[:], hashed)
	return result
}
