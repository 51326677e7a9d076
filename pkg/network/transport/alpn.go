package transport

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	protocolPrefix = "bytetransport"

	currentVersion = "0"

	// fingerprintLength is the number of hex nibbles in a schema fingerprint.
	fingerprintLength = 16
)

// ProtocolID is the ALPN identifier a peer offers. Peers only talk when
// they were built from the same schema, so the schema fingerprint is part
// of the identifier.
type ProtocolID struct {
	Version     string
	Fingerprint uint64
}

func NewProtocolID(fingerprint uint64) ProtocolID {
	return ProtocolID{Version: currentVersion, Fingerprint: fingerprint}
}

// String renders the identifier as bytetransport/<version>/<fingerprint>.
func (p ProtocolID) String() string {
	return fmt.Sprintf("%s/%s/%016x", protocolPrefix, p.Version, p.Fingerprint)
}

// ParseProtocolID parses an ALPN protocol string into a ProtocolID
func ParseProtocolID(protocol string) (ProtocolID, error) {
	parts := strings.Split(protocol, "/")
	if len(parts) != 3 {
		return ProtocolID{}, fmt.Errorf("%w: bad format %q", ErrInvalidProtocol, protocol)
	}
	if parts[0] != protocolPrefix {
		return ProtocolID{}, fmt.Errorf("%w: bad prefix %q", ErrInvalidProtocol, parts[0])
	}
	if parts[1] != currentVersion {
		return ProtocolID{}, fmt.Errorf("%w: unsupported version %q", ErrInvalidProtocol, parts[1])
	}

	fp := parts[2]
	if len(fp) != fingerprintLength {
		return ProtocolID{}, fmt.Errorf("%w: bad fingerprint length %q", ErrInvalidProtocol, fp)
	}
	for _, c := range fp {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return ProtocolID{}, fmt.Errorf("%w: bad fingerprint character %q", ErrInvalidProtocol, c)
		}
	}
	v, err := strconv.ParseUint(fp, 16, 64)
	if err != nil {
		return ProtocolID{}, fmt.Errorf("%w: %v", ErrInvalidProtocol, err)
	}

	return ProtocolID{Version: parts[1], Fingerprint: v}, nil
}
