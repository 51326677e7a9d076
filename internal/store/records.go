package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/eigerco/bytetransport/internal/crypto"
	"github.com/eigerco/bytetransport/pkg/db"
	"github.com/eigerco/bytetransport/pkg/db/pebble"
	"github.com/eigerco/bytetransport/pkg/log"
	"github.com/eigerco/bytetransport/pkg/serialization"
	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrCorruptRecord    = errors.New("record bytes do not match their hash")
	ErrSchemaMismatch   = errors.New("store was written with a different schema")
	ErrFingerprintValue = errors.New("stored schema fingerprint is malformed")
)

// Records is a content-addressed store of wire-encoded values. A record's key
// is the blake2b-256 hash of its encoding, so storing the same value twice
// yields one entry.
type Records struct {
	db.KVStore
	serializer *serialization.Serializer
}

// NewRecords creates a record store on top of kv.
func NewRecords(kv db.KVStore) *Records {
	return &Records{KVStore: kv, serializer: serialization.NewWireSerializer()}
}

// BindSchema records fingerprint on first use and afterwards rejects any
// other fingerprint with ErrSchemaMismatch.
func (r *Records) BindSchema(fingerprint uint64) error {
	key := makeKey(prefixMeta, metaFingerprint)
	b, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		e := wire.NewEncoder()
		e.PutUint64(fingerprint)
		return r.Put(key, e.Bytes())
	}
	if err != nil {
		return fmt.Errorf("get schema fingerprint: %w", err)
	}

	stored, err := wire.NewDecoder(b).Uint64()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFingerprintValue, err)
	}
	if stored != fingerprint {
		return fmt.Errorf("%w: stored 0x%016x, got 0x%016x", ErrSchemaMismatch, stored, fingerprint)
	}
	return nil
}

// PutRecord encodes v and stores it under the hash of its encoding.
func (r *Records) PutRecord(v any) (crypto.Hash, error) {
	b, err := r.serializer.Encode(v)
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("marshal record: %w", err)
	}

	h := crypto.HashData(b)
	if err := r.Put(makeKey(prefixRecord, h[:]), b); err != nil {
		return crypto.Hash{}, fmt.Errorf("store record: %w", err)
	}
	log.Store.Debug().Stringer("hash", h).Int("size", len(b)).Msg("stored record")
	return h, nil
}

// PutRecords stores every value in one atomic batch. Either all of them are
// written or none are.
func (r *Records) PutRecords(values ...any) ([]crypto.Hash, error) {
	batch := r.NewBatch()
	defer batch.Close()

	hashes := make([]crypto.Hash, 0, len(values))
	for i, v := range values {
		b, err := r.serializer.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", i, err)
		}
		h := crypto.HashData(b)
		if err := batch.Put(makeKey(prefixRecord, h[:]), b); err != nil {
			return nil, fmt.Errorf("store record %d: %w", i, err)
		}
		hashes = append(hashes, h)
	}

	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf(ErrFailedBatchCommit, err)
	}
	log.Store.Debug().Int("count", len(hashes)).Msg("stored record batch")
	return hashes, nil
}

// RawRecord returns the encoded bytes stored under h after checking that
// they still hash to h.
func (r *Records) RawRecord(h crypto.Hash) ([]byte, error) {
	b, err := r.Get(makeKey(prefixRecord, h[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, h)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	if got := crypto.HashData(b); got != h {
		return nil, fmt.Errorf("%w: %s", ErrCorruptRecord, h)
	}
	return b, nil
}

// GetRecord decodes the record stored under h into dst, which must be a
// pointer.
func (r *Records) GetRecord(h crypto.Hash, dst any) error {
	b, err := r.RawRecord(h)
	if err != nil {
		return err
	}
	if err := r.serializer.Decode(b, dst); err != nil {
		return fmt.Errorf("unmarshal record %s: %w", h, err)
	}
	return nil
}

// GetRecordAs is GetRecord for generated types.
func GetRecordAs[T any, PT wire.DecodablePtr[T]](r *Records, h crypto.Hash) (T, error) {
	var zero T
	b, err := r.RawRecord(h)
	if err != nil {
		return zero, err
	}
	v, err := wire.Unmarshal[T, PT](b)
	if err != nil {
		return zero, fmt.Errorf("unmarshal record %s: %w", h, err)
	}
	return v, nil
}

// HasRecord reports whether a record is stored under h.
func (r *Records) HasRecord(h crypto.Hash) (bool, error) {
	_, err := r.Get(makeKey(prefixRecord, h[:]))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get record: %w", err)
	}
	return true, nil
}

func (r *Records) DeleteRecord(h crypto.Hash) error {
	return r.Delete(makeKey(prefixRecord, h[:]))
}

// RecordHashes lists the hashes of all stored records in key order.
func (r *Records) RecordHashes() ([]crypto.Hash, error) {
	iter, err := r.NewIterator([]byte{prefixRecord}, []byte{prefixRecord + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var hashes []crypto.Hash
	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+crypto.HashSize {
			log.Store.Warn().Str("prefix", PrefixToString(key[0])).Int("len", len(key)).Msg("skipping malformed record key")
			continue
		}
		var h crypto.Hash
		copy(h[:], key[1:])
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// Verify re-hashes every stored record and returns the hashes whose bytes no
// longer match their key.
func (r *Records) Verify() ([]crypto.Hash, error) {
	iter, err := r.NewIterator([]byte{prefixRecord}, []byte{prefixRecord + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var corrupt []crypto.Hash
	for iter.Next() {
		key := iter.Key()
		b, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("read record value: %w", err)
		}
		h := crypto.HashData(b)
		if !bytes.Equal(key[1:], h[:]) {
			var bad crypto.Hash
			copy(bad[:], key[1:])
			corrupt = append(corrupt, bad)
		}
	}
	return corrupt, nil
}
