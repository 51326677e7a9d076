package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/pkg/network/mocks"
)

func TestNewConn(t *testing.T) {
	mockQConn := mocks.NewMockQuicConnection()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	transport := &Transport{ctx: ctx, cancel: cancel}

	conn := newConn(mockQConn, transport)
	assert.Equal(t, mockQConn, conn.QConn())
	assert.Equal(t, transport, conn.transport)

	// Cancelling the transport cancels its connections.
	cancel()
	select {
	case <-conn.Context().Done():
	case <-time.After(time.Second):
		t.Error("Conn's context was not cancelled when transport's context was cancelled")
	}
}

func TestOpenStream(t *testing.T) {
	transport := &Transport{ctx: context.Background()}

	t.Run("success", func(t *testing.T) {
		mockQConn := mocks.NewMockQuicConnection()
		mockStream := mocks.NewMockQuicStream()
		mockQConn.On("OpenStreamSync", mock.Anything).Return(mockStream, nil)

		stream, err := newConn(mockQConn, transport).OpenStream(context.Background())
		require.NoError(t, err)
		assert.Equal(t, mockStream, stream)
		mockQConn.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		mockQConn := mocks.NewMockQuicConnection()
		mockQConn.On("OpenStreamSync", mock.Anything).Return(nil, errors.New("stream limit reached"))

		_, err := newConn(mockQConn, transport).OpenStream(context.Background())
		assert.ErrorContains(t, err, "failed to open QUIC stream: stream limit reached")
	})
}

func TestRequestWriteFailure(t *testing.T) {
	mockQConn := mocks.NewMockQuicConnection()
	mockStream := mocks.NewMockQuicStream()
	mockQConn.On("OpenStreamSync", mock.Anything).Return(mockStream, nil)
	mockStream.On("Write", mock.Anything).Return(0, errors.New("reset"))
	mockStream.On("CancelRead", mock.Anything).Return()
	mockStream.On("CancelWrite", mock.Anything).Return()

	conn := newConn(mockQConn, &Transport{ctx: context.Background()})
	var reply uint8
	err := conn.Request(context.Background(), uint8(1), &reply)
	assert.ErrorContains(t, err, "reset")
	mockStream.AssertCalled(t, "CancelRead", mock.Anything)
	mockStream.AssertCalled(t, "CancelWrite", mock.Anything)
}

func TestConnClose(t *testing.T) {
	mockQConn := mocks.NewMockQuicConnection()
	mockQConn.On("CloseWithError", mock.Anything, "").Return(nil)

	conn := newConn(mockQConn, &Transport{ctx: context.Background()})
	require.NoError(t, conn.Close())
	assert.Error(t, conn.Context().Err())
	mockQConn.AssertExpectations(t)
}
