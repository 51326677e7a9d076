package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/eigerco/bytetransport/internal/crypto/ed25519"
)

// StreamTimeout defines the maximum duration to wait for stream operations
const StreamTimeout = 5 * time.Second

// Conn represents a QUIC connection with a remote peer. Its context is
// cancelled when the connection or its transport is closed.
type Conn struct {
	qConn     quic.Connection
	transport *Transport
	peerKey   ed25519.PublicKey
	ctx       context.Context
	cancel    context.CancelFunc
}

func newConn(qConn quic.Connection, transport *Transport) *Conn {
	ctx, cancel := context.WithCancel(transport.ctx)
	return &Conn{
		qConn:     qConn,
		transport: transport,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (c *Conn) QConn() quic.Connection {
	return c.qConn
}

// OpenStream opens a new bidirectional QUIC stream.
func (c *Conn) OpenStream(ctx context.Context) (quic.Stream, error) {
	stream, err := c.qConn.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open QUIC stream: %w", err)
	}
	return stream, nil
}

// AcceptStream waits for the peer to open a stream.
func (c *Conn) AcceptStream() (quic.Stream, error) {
	stream, err := c.qConn.AcceptStream(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to accept QUIC stream: %w", err)
	}
	return stream, nil
}

// Request sends req on a fresh stream and decodes the single reply into
// reply. The whole exchange is bounded by StreamTimeout.
func (c *Conn) Request(ctx context.Context, req any, reply any) error {
	ctx, cancel := context.WithTimeout(ctx, StreamTimeout)
	defer cancel()

	stream, err := c.OpenStream(ctx)
	if err != nil {
		return err
	}

	if err := SendValue(ctx, stream, req); err != nil {
		stream.CancelRead(0)
		stream.CancelWrite(0)
		return err
	}
	// Closing the send side tells the peer the request is complete.
	if err := stream.Close(); err != nil {
		stream.CancelRead(0)
		return fmt.Errorf("failed to close stream: %w", err)
	}

	if err := ReceiveValue(ctx, stream, reply); err != nil {
		stream.CancelRead(0)
		return err
	}
	return nil
}

// Serve answers requests sent with Request until the connection closes.
// handle receives the encoded request and returns the value to reply with.
func (c *Conn) Serve(handle func(ctx context.Context, req []byte) (any, error)) error {
	for {
		stream, err := c.AcceptStream()
		if err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			return err
		}
		go c.serveStream(stream, handle)
	}
}

func (c *Conn) serveStream(stream quic.Stream, handle func(ctx context.Context, req []byte) (any, error)) {
	ctx, cancel := context.WithTimeout(c.ctx, StreamTimeout)
	defer cancel()

	req, err := ReadMessage(ctx, stream)
	if err != nil {
		logStreamError(err, "failed to read request")
		stream.CancelRead(0)
		stream.CancelWrite(0)
		return
	}
	reply, err := handle(ctx, req)
	if err != nil {
		logStreamError(err, "request handler failed")
		stream.CancelWrite(0)
		return
	}
	if err := SendValue(ctx, stream, reply); err != nil {
		logStreamError(err, "failed to send reply")
		stream.CancelWrite(0)
		return
	}
	if err := stream.Close(); err != nil {
		logStreamError(err, "failed to close stream")
	}
}

// PeerKey returns the public key of the connected peer.
func (c *Conn) PeerKey() ed25519.PublicKey {
	return c.peerKey
}

// Close closes the connection and cancels all associated streams.
func (c *Conn) Close() error {
	c.cancel()
	return c.qConn.CloseWithError(0, "")
}

// Context returns the connection's context.
func (c *Conn) Context() context.Context {
	return c.ctx
}
