// Package info implements the cluster's administrative info protocol.
//
// The info protocol is a lightweight request/response exchange used for
// server introspection and health checks. A message is an 8-byte header
// followed by a text payload:
//
//	byte 0    protocol version (2)
//	byte 1    message type (1 = info)
//	bytes 2-7 payload size, 48-bit big-endian
//
// A request payload is one command name per line, each terminated by '\n'.
// A response payload carries one "name\tvalue\n" line per requested name.
package info

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const (
	protoVersion = 2
	msgTypeInfo  = 1

	headerSize = 8

	// maxResponseSize bounds the response payload. Statistics responses are
	// a few KiB; anything near this limit indicates a corrupt length field.
	maxResponseSize = 8 << 20
)

// ErrMalformedResponse indicates the server reply could not be parsed as an
// info protocol message.
var ErrMalformedResponse = errors.New("info: malformed response")

// Request issues a single info exchange over conn and parses the response.
//
// The context's deadline bounds the whole exchange via the connection
// deadline; there is no mid-flight cancellation beyond that bound. If the
// context carries no deadline a default of 5 seconds is applied.
//
// Parameters:
//   - ctx: Context whose deadline bounds the exchange
//   - conn: Established connection to a cluster node
//   - names: Info command names to request (e.g. "statistics")
//
// Returns:
//   - map[string]string: Response values keyed by command name
//   - error: Transport error, or ErrMalformedResponse if parsing fails
func Request(ctx context.Context, conn net.Conn, names ...string) (map[string]string, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("info: set deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{}) //nolint:errcheck // best-effort reset

	if err := writeRequest(conn, names); err != nil {
		return nil, err
	}

	payload, err := readResponse(conn)
	if err != nil {
		return nil, err
	}

	return parseResponse(payload)
}

// writeRequest frames and sends the command names.
func writeRequest(w io.Writer, names []string) error {
	var body strings.Builder
	for _, name := range names {
		body.WriteString(name)
		body.WriteByte('\n')
	}

	buf := make([]byte, headerSize+body.Len())
	putHeader(buf, uint64(body.Len()))
	copy(buf[headerSize:], body.String())

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("info: write request: %w", err)
	}

	return nil
}

// readResponse reads and validates one framed response, returning its payload.
func readResponse(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("info: read header: %w", err)
	}

	if header[0] != protoVersion {
		return nil, fmt.Errorf("%w: unexpected protocol version %d", ErrMalformedResponse, header[0])
	}
	if header[1] != msgTypeInfo {
		return nil, fmt.Errorf("%w: unexpected message type %d", ErrMalformedResponse, header[1])
	}

	size := payloadSize(header)
	if size == 0 || size > maxResponseSize {
		return nil, fmt.Errorf("%w: implausible payload size %d", ErrMalformedResponse, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("info: read payload: %w", err)
	}

	return payload, nil
}

// parseResponse splits the payload into name/value pairs.
func parseResponse(payload []byte) (map[string]string, error) {
	values := make(map[string]string)

	for line := range strings.SplitSeq(strings.TrimSuffix(string(payload), "\n"), "\n") {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, "\t")
		if !found || name == "" {
			return nil, fmt.Errorf("%w: line %q has no name/value separator", ErrMalformedResponse, line)
		}
		values[name] = value
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	return values, nil
}

// putHeader writes the version, type, and 48-bit payload size.
func putHeader(buf []byte, size uint64) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], size&0x0000FFFFFFFFFFFF)
	buf[0] = protoVersion
	buf[1] = msgTypeInfo
	copy(buf[2:8], scratch[2:8])
}

// payloadSize extracts the 48-bit payload size from a header.
func payloadSize(header []byte) uint64 {
	var scratch [8]byte
	copy(scratch[2:8], header[2:8])
	return binary.BigEndian.Uint64(scratch[:])
}

// ParseStats parses a statistics value ("k1=v1;k2=v2;...") into a map.
//
// Entries without an '=' separator are kept with an empty value rather than
// rejected; the statistics payload is advisory and servers vary.
//
// Parameters:
//   - value: The raw statistics value from an info response
//
// Returns:
//   - map[string]string: Parsed statistics entries
func ParseStats(value string) map[string]string {
	stats := make(map[string]string)
	for entry := range strings.SplitSeq(value, ";") {
		if entry == "" {
			continue
		}
		k, v, _ := strings.Cut(entry, "=")
		stats[k] = v
	}
	return stats
}
