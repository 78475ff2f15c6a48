package wifi

import (
	"io"
	"sync"
	"time"
)

// TestTransport is a test helper that simulates a serial transport using
// channels. Reads block until data is queued (like a real serial port) unless
// a read timeout was set, in which case they return a zero-length read on
// expiry, matching the serial port contract.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	timeout  time.Duration
	closed   bool
	writes   [][]byte
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 32),
	}
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	t.mu.Lock()
	timeout := t.timeout
	t.mu.Unlock()

	if timeout > 0 {
		select {
		case data, ok := <-t.readChan:
			if !ok {
				return 0, io.EOF
			}
			return copy(p, data), nil
		case <-time.After(timeout):
			return 0, nil
		}
	}

	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

// SetReadTimeout bounds subsequent reads, like a serial port would.
func (t *TestTransport) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates receiving data from the module.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Writes returns everything written to the transport so far, one entry per
// Write call.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.writes))
	for i, w := range t.writes {
		out[i] = string(w)
	}
	return out
}
