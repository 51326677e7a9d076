package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/internal/testtypes"
	"github.com/eigerco/bytetransport/pkg/geometry"
	"github.com/eigerco/bytetransport/pkg/network/cert"
	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

func newTestCert(t *testing.T) *tls.Certificate {
	t.Helper()
	c, err := cert.SelfSigned(time.Hour)
	require.NoError(t, err)
	return c
}

func newTestTransport(t *testing.T, fingerprint uint64, handler ConnectionHandler) *Transport {
	t.Helper()
	tr, err := NewTransport(Config{
		TLSCert:       newTestCert(t),
		ListenAddr:    "127.0.0.1:0",
		Fingerprint:   fingerprint,
		CertValidator: cert.NewValidator(),
		Handler:       handler,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, tr.Stop())
	})
	return tr
}

func noopHandler() ConnectionHandler {
	return ConnectionHandlerFunc(func(*Conn) error { return nil })
}

// shoutHandler answers every Entity request with the same entity, its name
// upper-cased.
func shoutHandler() ConnectionHandler {
	return ConnectionHandlerFunc(func(conn *Conn) error {
		go func() {
			_ = conn.Serve(func(_ context.Context, req []byte) (any, error) {
				entity, err := wire.Unmarshal[testtypes.Entity](req)
				if err != nil {
					return nil, err
				}
				entity.Name = strings.ToUpper(entity.Name)
				return entity, nil
			})
		}()
		return nil
	})
}

func listenAddr(t *testing.T, tr *Transport) string {
	t.Helper()
	require.NoError(t, tr.Start())
	addr, err := tr.Addr()
	require.NoError(t, err)
	return addr.String()
}

func TestNewTransportValidation(t *testing.T) {
	validCert := newTestCert(t)

	tests := []struct {
		name   string
		config Config
	}{
		{"missing certificate", Config{CertValidator: cert.NewValidator(), Handler: noopHandler()}},
		{"missing validator", Config{TLSCert: validCert, Handler: noopHandler()}},
		{"missing handler", Config{TLSCert: validCert, CertValidator: cert.NewValidator()}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTransport(tc.config)
			assert.Error(t, err)
		})
	}

	t.Run("invalid certificate", func(t *testing.T) {
		expired, err := cert.SelfSigned(-time.Hour)
		require.NoError(t, err)
		_, err = NewTransport(Config{TLSCert: expired, CertValidator: cert.NewValidator(), Handler: noopHandler()})
		assert.ErrorIs(t, err, ErrInvalidCertificate)
	})
}

func TestAddrBeforeStart(t *testing.T) {
	tr := newTestTransport(t, 1, noopHandler())
	_, err := tr.Addr()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestRequestOverQUIC(t *testing.T) {
	server := newTestTransport(t, testtypes.SchemaFingerprint, shoutHandler())
	addr := listenAddr(t, server)

	client := newTestTransport(t, testtypes.SchemaFingerprint, noopHandler())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := client.Connect(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, server.config.TLSCert.Leaf.PublicKey, conn.PeerKey())

	got, ok := client.GetConnection(conn.PeerKey())
	require.True(t, ok)
	assert.Same(t, conn, got)
	assert.Len(t, client.ListConnections(), 1)

	entity := testtypes.Entity{
		Name:      "crate",
		Placement: geometry.IdentityTransform,
		Facing:    [4]float32{5.5, 32, 0.143, 1},
		Waypoints: []*uint16{nil, ptr(uint16(3))},
		TTL:       90 * time.Second,
		Tags:      []uint8{0xca, 0xfe},
		Balance:   wire.MaxUint128,
		State:     testtypes.TestEnumC{TestField: 1, TestField2: true},
	}

	var reply testtypes.Entity
	require.NoError(t, conn.Request(ctx, entity, &reply))

	entity.Name = "CRATE"
	assert.Equal(t, entity, reply)

	// Several requests share one connection.
	for i := 0; i < 3; i++ {
		var again testtypes.Entity
		require.NoError(t, conn.Request(ctx, reply, &again))
		assert.Equal(t, "CRATE", again.Name)
	}
}

func TestConnectRejectsOtherSchema(t *testing.T) {
	server := newTestTransport(t, testtypes.SchemaFingerprint, shoutHandler())
	addr := listenAddr(t, server)

	client := newTestTransport(t, testtypes.SchemaFingerprint+1, noopHandler())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Connect(ctx, addr)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDialFailed)
	assert.Empty(t, client.ListConnections())
}

func TestHandlerRejectsConnection(t *testing.T) {
	server := newTestTransport(t, 7, noopHandler())
	addr := listenAddr(t, server)

	client := newTestTransport(t, 7, ConnectionHandlerFunc(func(*Conn) error {
		return errors.New("not today")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Connect(ctx, addr)
	assert.ErrorIs(t, err, ErrConnFailed)
	assert.Empty(t, client.ListConnections())
}

func ptr[T any](v T) *T {
	return &v
}
