package testutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/internal/crypto"
)

func RandomHash(t *testing.T) crypto.Hash {
	var h crypto.Hash
	_, err := rand.Read(h[:])
	require.NoError(t, err)
	return h
}

func RandomBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}
