package transport

import (
	"errors"

	"github.com/eigerco/bytetransport/pkg/log"
)

var (
	ErrInvalidCertificate = errors.New("invalid certificate")
	ErrInvalidProtocol    = errors.New("invalid protocol")
	ErrListenerFailed     = errors.New("failed to create QUIC listener")
	ErrDialFailed         = errors.New("failed to dial peer")
	ErrConnFailed         = errors.New("failed to establish connection")
	ErrMessageTooLarge    = errors.New("message exceeds maximum size")
	ErrNotStarted         = errors.New("transport not started")
)

func logStreamError(err error, msg string) {
	log.Network.Debug().Err(err).Msg(msg)
}
