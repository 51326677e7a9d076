package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/internal/crypto"
	"github.com/eigerco/bytetransport/internal/testtypes"
	"github.com/eigerco/bytetransport/internal/testutils"
	"github.com/eigerco/bytetransport/pkg/db/pebble"
	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

func newRecords(t *testing.T) *Records {
	t.Helper()
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close(), "failed to close db")
	})
	return NewRecords(kv)
}

func TestRecordStore(t *testing.T) {
	records := newRecords(t)

	original := testtypes.TestStruct{
		FieldA:    0,
		FieldB:    5,
		SubStruct: &testtypes.SubStruct{B: true, Integer32: -1},
	}

	h, err := records.PutRecord(original)
	require.NoError(t, err)

	b, err := wire.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, crypto.HashData(b), h, "records are keyed by the hash of their encoding")

	var actual testtypes.TestStruct
	require.NoError(t, records.GetRecord(h, &actual))
	assert.Equal(t, original, actual)

	typed, err := GetRecordAs[testtypes.TestStruct](records, h)
	require.NoError(t, err)
	assert.Equal(t, original, typed)

	ok, err := records.HasRecord(h)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, records.DeleteRecord(h))

	ok, err = records.HasRecord(h)
	require.NoError(t, err)
	assert.False(t, ok)

	err = records.GetRecord(h, &actual)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordStoreEnum(t *testing.T) {
	records := newRecords(t)

	var original testtypes.TestEnum = testtypes.TestEnumC{TestField: 7, TestField2: true}
	h, err := records.PutRecord(original)
	require.NoError(t, err)

	raw, err := records.RawRecord(h)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 7, 0, 0, 0, 0x01}, raw)

	var actual testtypes.TestEnum
	require.NoError(t, records.GetRecord(h, &actual))
	assert.Equal(t, original, actual)
}

func TestPutRecordIsIdempotent(t *testing.T) {
	records := newRecords(t)

	a, err := records.PutRecord(testtypes.SubStruct{B: true})
	require.NoError(t, err)
	b, err := records.PutRecord(testtypes.SubStruct{B: true})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	hashes, err := records.RecordHashes()
	require.NoError(t, err)
	assert.Equal(t, []crypto.Hash{a}, hashes)
}

func TestPutRecords(t *testing.T) {
	records := newRecords(t)

	hashes, err := records.PutRecords(
		testtypes.SubStruct{B: true, Integer32: 1},
		testtypes.SubStruct{B: false, Integer32: 2},
		testtypes.TestEnumA{},
	)
	require.NoError(t, err)
	require.Len(t, hashes, 3)

	stored, err := records.RecordHashes()
	require.NoError(t, err)
	assert.ElementsMatch(t, hashes, stored)

	var second testtypes.SubStruct
	require.NoError(t, records.GetRecord(hashes[1], &second))
	assert.Equal(t, testtypes.SubStruct{Integer32: 2}, second)
}

func TestPutRecordsIsAtomic(t *testing.T) {
	records := newRecords(t)

	_, err := records.PutRecords(testtypes.SubStruct{B: true}, map[string]int{"x": 1})
	require.ErrorIs(t, err, wire.ErrUnsupportedType)

	stored, err := records.RecordHashes()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCorruptRecord(t *testing.T) {
	records := newRecords(t)

	h, err := records.PutRecord(testtypes.SubStruct{Integer32: 10})
	require.NoError(t, err)

	require.NoError(t, records.Put(makeKey(prefixRecord, h[:]), []byte{0x01, 0, 0, 0, 0}))

	_, err = records.RawRecord(h)
	require.ErrorIs(t, err, ErrCorruptRecord)

	corrupt, err := records.Verify()
	require.NoError(t, err)
	assert.Equal(t, []crypto.Hash{h}, corrupt)
}

func TestBindSchema(t *testing.T) {
	records := newRecords(t)

	require.NoError(t, records.BindSchema(testtypes.SchemaFingerprint))
	require.NoError(t, records.BindSchema(testtypes.SchemaFingerprint))

	err := records.BindSchema(testtypes.SchemaFingerprint + 1)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	require.NoError(t, records.Put(makeKey(prefixMeta, metaFingerprint), []byte{0x01}))
	err = records.BindSchema(testtypes.SchemaFingerprint)
	require.ErrorIs(t, err, ErrFingerprintValue)
	require.ErrorIs(t, err, wire.ErrTruncatedInput)
}

func TestRecordHashesSkipsMeta(t *testing.T) {
	records := newRecords(t)

	require.NoError(t, records.BindSchema(1))
	h, err := records.PutRecord(testtypes.Entity{Name: "crate", State: testtypes.TestEnumA{}})
	require.NoError(t, err)

	hashes, err := records.RecordHashes()
	require.NoError(t, err)
	assert.Equal(t, []crypto.Hash{h}, hashes)

	entity, err := GetRecordAs[testtypes.Entity](records, h)
	require.NoError(t, err)
	assert.Equal(t, "crate", entity.Name)
}

func TestPrefixToString(t *testing.T) {
	assert.Equal(t, "record", PrefixToString(prefixRecord))
	assert.Equal(t, "meta", PrefixToString(prefixMeta))
	assert.Equal(t, "unknown", PrefixToString(0xff))
}

func TestRecordNotFound(t *testing.T) {
	records := newRecords(t)

	missing := testutils.RandomHash(t)
	_, err := records.RawRecord(missing)
	require.ErrorIs(t, err, ErrRecordNotFound)

	_, err = GetRecordAs[testtypes.SubStruct](records, missing)
	require.ErrorIs(t, err, ErrRecordNotFound)

	ok, err := records.HasRecord(missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistinctRecords(t *testing.T) {
	records := newRecords(t)

	a, err := records.PutRecord(testtypes.Entity{Tags: testutils.RandomBytes(t, 32), State: testtypes.TestEnumA{}})
	require.NoError(t, err)
	b, err := records.PutRecord(testtypes.Entity{Tags: testutils.RandomBytes(t, 32), State: testtypes.TestEnumA{}})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	corrupt, err := records.Verify()
	require.NoError(t, err)
	assert.Empty(t, corrupt)
}
