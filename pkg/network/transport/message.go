package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/eigerco/bytetransport/pkg/serialization"
	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

// MaxMessageSize bounds the content of a single framed message.
const MaxMessageSize = 16 << 20

// headerSize is the little-endian u32 content length preceding each message.
const headerSize = 4

var serializer = serialization.NewWireSerializer()

// WriteMessage writes content prefixed by its length as a little-endian
// uint32. The write is abandoned when ctx is done; the writer is then left
// in an unknown state and should be discarded.
func WriteMessage(ctx context.Context, w io.Writer, content []byte) error {
	if len(content) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(content))
	}

	e := wire.NewEncoder()
	e.PutUint32(uint32(len(content)))
	e.PutRaw(content)

	return withContext(ctx, func() error {
		if _, err := w.Write(e.Bytes()); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
		return nil
	})
}

// ReadMessage reads one message written by WriteMessage.
func ReadMessage(ctx context.Context, r io.Reader) ([]byte, error) {
	var content []byte
	err := withContext(ctx, func() error {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(r, header); err != nil {
			return fmt.Errorf("failed to read message size: %w", err)
		}
		size, err := wire.NewDecoder(header).Uint32()
		if err != nil {
			return err
		}
		if size > MaxMessageSize {
			return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
		}

		content = make([]byte, size)
		if _, err := io.ReadFull(r, content); err != nil {
			return fmt.Errorf("failed to read message content: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// SendValue wire-encodes v and writes it as one message.
func SendValue(ctx context.Context, w io.Writer, v any) error {
	b, err := serializer.Encode(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return WriteMessage(ctx, w, b)
}

// ReceiveValue reads one message and decodes it into dst, which must be a
// pointer.
func ReceiveValue(ctx context.Context, r io.Reader, dst any) error {
	b, err := ReadMessage(ctx, r)
	if err != nil {
		return err
	}
	if err := serializer.Decode(b, dst); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

func withContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
