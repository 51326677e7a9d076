package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hash is a blake2b-256 digest.
type Hash [HashSize]byte

func HashData(data []byte) Hash {
	return blake2b.Sum256(data)
}

// String renders the hash as 0x-prefixed lowercase hex.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash parses a hex string, with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("decode hash %q: %w", s, err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash %q has %d bytes, want %d", s, len(b), HashSize)
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
