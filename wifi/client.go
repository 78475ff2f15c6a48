package wifi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbrgn/rt-esp-at-nal/at"
)

// Response contains the result of an AT command exchange.
type Response struct {
	// Lines holds the intermediate data lines and the final response token.
	Lines []string
	// Payload holds binary data returned by a receive data command.
	Payload []byte
}

// Contains reports whether one of the response lines equals s.
func (r Response) Contains(s string) bool {
	for _, line := range r.Lines {
		if line == s {
			return true
		}
	}
	return false
}

// Client is the command/notification channel the adapter drives. Exactly one
// adapter owns a client; neither is internally synchronized.
type Client interface {
	// Exec sends a command and blocks until the module answers with a final
	// response token. Unsolicited messages observed during the exchange are
	// decoded and queued for PollEvent, never lost. A non-OK final returns
	// the collected response together with an error naming the token.
	Exec(cmd string) (Response, error)

	// ExecRaw writes a raw transmission payload after a send prepare
	// command. No response is awaited; the module reports the outcome
	// through unsolicited messages.
	ExecRaw(data []byte) error

	// PollEvent returns the next pending unsolicited event, if any. It
	// never blocks: queued events are drained first, then the transport is
	// pumped with a bounded zero-ish read timeout.
	PollEvent() (at.Event, bool)

	// Reset discards accumulated framing state. It is used to resynchronize
	// after a failed or timed-out transmission left the module mid-prompt.
	Reset()
}

const (
	// readChunkSize is the transport read granularity.
	readChunkSize = 256
	// pollReadTimeout bounds a single non-blocking pump read.
	pollReadTimeout = time.Millisecond
	// maxPumpReads bounds the number of reads per pump so PollEvent cannot
	// spin forever on a babbling transport.
	maxPumpReads = 32
)

// serialClient implements Client over a byte stream transport. All reads
// happen on the caller's goroutine: during Exec until the final token, and in
// bounded non-blocking pumps during PollEvent.
type serialClient struct {
	transport   Transport
	execTimeout time.Duration

	// buf accumulates unparsed module output
	buf []byte
	// events holds decoded unsolicited messages pending delivery
	events []at.Event
}

func newSerialClient(transport Transport, execTimeout time.Duration) *serialClient {
	return &serialClient{
		transport:   transport,
		execTimeout: execTimeout,
	}
}

func (c *serialClient) Exec(cmd string) (Response, error) {
	wire := strings.TrimSpace(cmd) + at.CRLF
	if _, err := c.transport.Write([]byte(wire)); err != nil {
		return Response{}, fmt.Errorf("write command %q: %w", cmd, err)
	}

	deadline := time.Now().Add(c.execTimeout)
	var resp Response

	for {
		token, ok := c.nextToken()
		if !ok {
			if err := c.fill(deadline); err != nil {
				return resp, err
			}
			continue
		}

		switch at.Classify(token) {
		case at.TypeURC:
			c.events = append(c.events, at.ParseEvent(token))

		case at.TypePrompt:
			// Leftover payload prompt from a previous prepare, no data

		case at.TypeData:
			if payload, ok := at.RecvDataPayload(token); ok {
				resp.Payload = append(resp.Payload, payload...)
			} else {
				resp.Lines = append(resp.Lines, token)
			}

		case at.TypeFinal:
			resp.Lines = append(resp.Lines, token)
			if token == at.OK {
				return resp, nil
			}
			return resp, errors.New(token)
		}
	}
}

func (c *serialClient) ExecRaw(data []byte) error {
	if _, err := c.transport.Write(data); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

func (c *serialClient) PollEvent() (at.Event, bool) {
	if len(c.events) == 0 {
		c.pump()
	}
	if len(c.events) == 0 {
		return at.Event{}, false
	}

	event := c.events[0]
	c.events = c.events[1:]
	return event, true
}

func (c *serialClient) Reset() {
	c.buf = nil
}

// nextToken extracts the next complete token from the accumulator, skipping
// blank lines. It never reads from the transport.
func (c *serialClient) nextToken() (string, bool) {
	for {
		advance, token, err := at.Splitter(c.buf, false)
		if err != nil || advance == 0 {
			return "", false
		}
		c.buf = c.buf[advance:]
		if len(token) == 0 {
			continue
		}
		return string(token), true
	}
}

// fill blocks for more module output until the given deadline.
func (c *serialClient) fill(deadline time.Time) error {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return ErrCommandTimeout
	}
	if setter, ok := c.transport.(readTimeoutSetter); ok {
		if err := setter.SetReadTimeout(remaining); err != nil {
			return fmt.Errorf("set read timeout: %w", err)
		}
	}

	chunk := make([]byte, readChunkSize)
	n, err := c.transport.Read(chunk)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if n == 0 {
		// A zero-length read signals a timed out read on serial transports
		return ErrCommandTimeout
	}

	c.buf = append(c.buf, chunk[:n]...)
	return nil
}

// pump performs bounded non-blocking reads and queues any decoded events.
// Tokens that belong to no in-flight command are dropped, matching the
// request/response nature of the channel.
func (c *serialClient) pump() {
	setter, ok := c.transport.(readTimeoutSetter)
	if !ok {
		// Transport cannot bound reads; only already-buffered data is
		// tokenized to keep PollEvent non-blocking.
		c.drainTokens()
		return
	}
	if err := setter.SetReadTimeout(pollReadTimeout); err != nil {
		c.drainTokens()
		return
	}

	chunk := make([]byte, readChunkSize)
	for range maxPumpReads {
		n, err := c.transport.Read(chunk)
		if err != nil || n == 0 {
			break
		}
		c.buf = append(c.buf, chunk[:n]...)
	}
	c.drainTokens()
}

func (c *serialClient) drainTokens() {
	for {
		token, ok := c.nextToken()
		if !ok {
			return
		}
		if at.Classify(token) == at.TypeURC {
			c.events = append(c.events, at.ParseEvent(token))
		}
	}
}
