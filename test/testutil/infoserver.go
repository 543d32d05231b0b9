// Package testutil provides test utilities and mock implementations for aerolink testing.
package testutil

import (
	"encoding/binary"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	infoProtoVersion = 2
	infoMsgType      = 1
	infoHeaderSize   = 8
)

// InfoServer is a scriptable in-process server speaking the admin info
// protocol, used to stand in for a cluster node in unit tests.
type InfoServer struct {
	ln       net.Listener
	mu       sync.RWMutex
	values   map[string]string
	garbage  bool
	silent   bool
	accepted atomic.Int32
	wg       sync.WaitGroup
	closed   atomic.Bool
}

// StartInfoServer starts an info server on a random loopback port.
//
// By default it answers any requested name found in values; unknown names
// are answered with an empty value. The server is shut down automatically
// when the test completes.
//
// Parameters:
//   - t: The testing context
//   - values: Response values keyed by command name (nil for defaults)
//
// Returns:
//   - *InfoServer: The running server
func StartInfoServer(t *testing.T, values map[string]string) *InfoServer {
	t.Helper()

	if values == nil {
		values = map[string]string{
			"statistics": "cluster_size=1;uptime=1",
		}
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &InfoServer{ln: ln, values: values}
	s.wg.Add(1)
	go s.acceptLoop()

	t.Cleanup(s.Close)

	return s
}

// Addr returns the server's host:port address.
func (s *InfoServer) Addr() string {
	return s.ln.Addr().String()
}

// Port returns the server's listen port.
func (s *InfoServer) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Accepted returns the number of connections the server has accepted.
func (s *InfoServer) Accepted() int {
	return int(s.accepted.Load())
}

// SetValue sets the response value for a command name.
func (s *InfoServer) SetValue(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// RespondGarbage makes the server reply with bytes that are not a valid
// info message.
func (s *InfoServer) RespondGarbage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.garbage = true
}

// GoSilent makes the server accept connections but never reply, so client
// probes run into their timeout.
func (s *InfoServer) GoSilent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = true
}

// Close shuts the server down and waits for connection handlers to finish.
func (s *InfoServer) Close() {
	if s.closed.Swap(true) {
		return
	}
	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *InfoServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.accepted.Add(1)
		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *InfoServer) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	for {
		header := make([]byte, infoHeaderSize)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}

		var scratch [8]byte
		copy(scratch[2:8], header[2:8])
		size := binary.BigEndian.Uint64(scratch[:])

		payload := make([]byte, size)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		s.mu.RLock()
		garbage, silent := s.garbage, s.silent
		s.mu.RUnlock()

		if silent {
			continue
		}
		if garbage {
			_, _ = conn.Write([]byte("this is not an info message"))
			return
		}

		var body strings.Builder
		for name := range strings.SplitSeq(strings.TrimSuffix(string(payload), "\n"), "\n") {
			if name == "" {
				continue
			}
			s.mu.RLock()
			value := s.values[name]
			s.mu.RUnlock()
			body.WriteString(name)
			body.WriteByte('\t')
			body.WriteString(value)
			body.WriteByte('\n')
		}

		reply := make([]byte, infoHeaderSize+body.Len())
		reply[0] = infoProtoVersion
		reply[1] = infoMsgType
		binary.BigEndian.PutUint64(scratch[:], uint64(body.Len()))
		copy(reply[2:8], scratch[2:8])
		copy(reply[infoHeaderSize:], body.String())

		if _, err := conn.Write(reply); err != nil {
			return
		}
	}
}

// ClosedPort returns a loopback host:port that refuses connections.
//
// It briefly binds a listener to reserve a free port and closes it, so a
// subsequent dial is refused deterministically.
//
// Parameters:
//   - t: The testing context
//
// Returns:
//   - string: A host:port address with nothing listening
//   - int: The port number
func ClosedPort(t *testing.T) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	return addr, port
}
