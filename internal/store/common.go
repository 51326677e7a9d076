package store

const (
	ErrFailedBatchCommit = "failed to commit batch: %w"
)

// Prefix constants for all store key spaces
const (
	prefixRecord byte = iota + 1
	prefixMeta
)

// metaFingerprint holds the schema fingerprint a store was bound to.
var metaFingerprint = []byte("fingerprint")

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixRecord:
		return "record"
	case prefixMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and hash
func makeKey(prefix byte, hash []byte) []byte {
	key := make([]byte, 1+len(hash))
	key[0] = prefix
	copy(key[1:], hash)
	return key
}
