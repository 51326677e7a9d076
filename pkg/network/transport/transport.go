// Package transport carries wire-encoded values between peers over QUIC.
// Peers authenticate with self-signed Ed25519 certificates and only connect
// when their ALPN identifiers, which embed the schema fingerprint, agree.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/eigerco/bytetransport/internal/crypto/ed25519"
	"github.com/eigerco/bytetransport/pkg/log"
)

// MaxIdleTimeout defines the maximum duration a connection can be idle before timing out
const MaxIdleTimeout = 30 * time.Minute

// CertValidator performs TLS certificate validation and public key extraction
type CertValidator interface {
	ValidateCertificate(cert *x509.Certificate) error
	ExtractPublicKey(cert *x509.Certificate) (ed25519.PublicKey, error)
}

// ConnectionHandler is told about every established connection, inbound or
// outbound. Returning an error closes the connection.
type ConnectionHandler interface {
	OnConnection(conn *Conn) error
}

// ConnectionHandlerFunc adapts a function to ConnectionHandler.
type ConnectionHandlerFunc func(conn *Conn) error

func (f ConnectionHandlerFunc) OnConnection(conn *Conn) error {
	return f(conn)
}

// Config contains all configuration parameters for a Transport
type Config struct {
	TLSCert       *tls.Certificate
	ListenAddr    string
	Fingerprint   uint64 // schema fingerprint both peers must share
	CertValidator CertValidator
	Handler       ConnectionHandler
}

// Transport manages QUIC connections and their lifecycles
type Transport struct {
	config   Config
	protocol string
	listener *quic.Listener
	mu       sync.RWMutex
	conns    map[string]*Conn // active connections keyed by peer public key
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewTransport creates and configures a new transport instance.
func NewTransport(config Config) (*Transport, error) {
	if config.TLSCert == nil {
		return nil, fmt.Errorf("TLS certificate required")
	}
	if config.CertValidator == nil {
		return nil, fmt.Errorf("certificate validator required")
	}
	if config.Handler == nil {
		return nil, fmt.Errorf("connection handler required")
	}
	if err := config.CertValidator.ValidateCertificate(config.TLSCert.Leaf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		config:   config,
		protocol: NewProtocolID(config.Fingerprint).String(),
		conns:    make(map[string]*Conn),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (t *Transport) tlsConfig() *tls.Config {
	return &tls.Config{
		Certificates:       []tls.Certificate{*t.config.TLSCert},
		NextProtos:         []string{t.protocol},
		ClientAuth:         tls.RequireAnyClientCert,
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: true,
		VerifyConnection:   t.verifyConnection,
	}
}

// verifyConnection runs on both sides of the handshake. Peer identity comes
// from the certificate, not from a CA chain.
func (t *Transport) verifyConnection(cs tls.ConnectionState) error {
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("%w: no peer certificate provided", ErrInvalidCertificate)
	}
	if err := t.config.CertValidator.ValidateCertificate(cs.PeerCertificates[0]); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	id, err := ParseProtocolID(cs.NegotiatedProtocol)
	if err != nil {
		return err
	}
	if id.Fingerprint != t.config.Fingerprint {
		return fmt.Errorf("%w: peer schema fingerprint %016x", ErrInvalidProtocol, id.Fingerprint)
	}
	return nil
}

func quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout: MaxIdleTimeout,
	}
}

// Start begins listening on the configured address and accepting
// connections.
func (t *Transport) Start() error {
	listener, err := quic.ListenAddr(t.config.ListenAddr, t.tlsConfig(), quicConfig())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrListenerFailed, err)
	}

	t.listener = listener
	t.done = make(chan struct{})
	go func() {
		t.acceptLoop()
		close(t.done)
	}()
	log.Network.Info().Str("addr", listener.Addr().String()).Str("protocol", t.protocol).Msg("transport listening")
	return nil
}

// Addr returns the address the transport listens on.
func (t *Transport) Addr() (net.Addr, error) {
	if t.listener == nil {
		return nil, ErrNotStarted
	}
	return t.listener.Addr(), nil
}

// Stop shuts down the transport and all active connections.
func (t *Transport) Stop() error {
	t.cancel()

	t.mu.Lock()
	for _, conn := range t.conns {
		if err := conn.Close(); err != nil {
			log.Network.Warn().Err(err).Msg("failed to close connection")
		}
	}
	t.conns = make(map[string]*Conn)
	t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	if err := t.listener.Close(); err != nil {
		return fmt.Errorf("failed to close listener: %w", err)
	}
	<-t.done
	return nil
}

// Connect dials a remote peer and returns the established connection.
func (t *Transport) Connect(ctx context.Context, addr string) (*Conn, error) {
	qConn, err := quic.DialAddr(ctx, addr, t.tlsConfig(), quicConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDialFailed, err)
	}

	conn := t.handleConnection(qConn)
	if conn == nil {
		return nil, ErrConnFailed
	}
	return conn, nil
}

// GetConnection retrieves an active connection by peer key.
func (t *Transport) GetConnection(peerKey ed25519.PublicKey) (*Conn, bool) {
	t.mu.RLock()
	conn, ok := t.conns[string(peerKey)]
	t.mu.RUnlock()
	return conn, ok
}

// ListConnections returns a slice of all active connections.
func (t *Transport) ListConnections() []*Conn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	conns := make([]*Conn, 0, len(t.conns))
	for _, conn := range t.conns {
		conns = append(conns, conn)
	}
	return conns
}

func (t *Transport) acceptLoop() {
	for {
		qConn, err := t.listener.Accept(t.ctx)
		if err != nil {
			if t.ctx.Err() != nil {
				return
			}
			log.Network.Warn().Err(err).Msg("failed to accept connection")
			continue
		}
		go t.handleConnection(qConn)
	}
}

func (t *Transport) handleConnection(qConn quic.Connection) *Conn {
	peerCerts := qConn.ConnectionState().TLS.PeerCertificates
	if len(peerCerts) == 0 {
		t.reject(qConn, fmt.Errorf("%w: no peer certificate provided", ErrInvalidCertificate))
		return nil
	}
	peerKey, err := t.config.CertValidator.ExtractPublicKey(peerCerts[0])
	if err != nil {
		t.reject(qConn, fmt.Errorf("%w: %v", ErrInvalidCertificate, err))
		return nil
	}

	conn := t.manageConnection(peerKey, qConn)
	log.Network.Debug().Str("peer", qConn.RemoteAddr().String()).Msg("connection established")

	if err := t.config.Handler.OnConnection(conn); err != nil {
		t.cleanup(conn)
		t.reject(qConn, err)
		return nil
	}
	return conn
}

func (t *Transport) reject(qConn quic.Connection, reason error) {
	log.Network.Debug().Err(reason).Msg("rejecting connection")
	if err := qConn.CloseWithError(0, reason.Error()); err != nil {
		log.Network.Warn().Err(err).Msg("failed to close connection")
	}
}

// manageConnection stores conn, replacing any existing connection to the
// same peer.
func (t *Transport) manageConnection(peerKey ed25519.PublicKey, qConn quic.Connection) *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.conns[string(peerKey)]; ok {
		log.Network.Debug().Msg("replacing existing connection")
		if err := existing.Close(); err != nil {
			log.Network.Warn().Err(err).Msg("failed to close existing connection")
		}
	}

	conn := newConn(qConn, t)
	conn.peerKey = peerKey
	t.conns[string(peerKey)] = conn
	return conn
}

// cleanup forgets conn unless it has already been replaced.
func (t *Transport) cleanup(conn *Conn) {
	t.mu.Lock()
	if t.conns[string(conn.peerKey)] == conn {
		delete(t.conns, string(conn.peerKey))
	}
	t.mu.Unlock()
}
