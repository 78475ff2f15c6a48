package wifi

import (
	"testing"

	"github.com/dbrgn/rt-esp-at-nal/at"
)

// ExecExpectation scripts one command exchange on a TestClient. Events are
// queued for PollEvent after the exchange returns, simulating notifications
// arriving together with the response.
type ExecExpectation struct {
	Cmd    string
	Resp   Response
	Err    error
	Events []at.Event
}

// RawExpectation scripts one raw payload write on a TestClient.
type RawExpectation struct {
	Err    error
	Events []at.Event
}

// TestClient is a scriptable Client fake for driving the adapter state
// machine without a transport. The one-shot mode commands (CIPMUX,
// CIPRECVMODE) and the reconciler's housekeeping command are answered with
// OK automatically, so scenarios only script domain commands.
// Exported for use in tests.
type TestClient struct {
	t *testing.T

	execs  []ExecExpectation
	raws   []RawExpectation
	events []at.Event

	commands []string
	payloads [][]byte
	resets   int
}

// NewTestClient creates a new scriptable client fake. Unconsumed
// expectations fail the test on cleanup.
func NewTestClient(t *testing.T) *TestClient {
	c := &TestClient{t: t}
	t.Cleanup(func() {
		if len(c.execs) > 0 {
			t.Errorf("%d scripted command(s) never issued, next: %q", len(c.execs), c.execs[0].Cmd)
		}
		if len(c.raws) > 0 {
			t.Errorf("%d scripted payload write(s) never issued", len(c.raws))
		}
	})
	return c
}

// ExpectExec appends a scripted command exchange.
func (c *TestClient) ExpectExec(e ExecExpectation) *TestClient {
	c.execs = append(c.execs, e)
	return c
}

// ExpectRaw appends a scripted payload write.
func (c *TestClient) ExpectRaw(e RawExpectation) *TestClient {
	c.raws = append(c.raws, e)
	return c
}

// QueueEvents queues events for delivery on the next PollEvent calls.
func (c *TestClient) QueueEvents(events ...at.Event) *TestClient {
	c.events = append(c.events, events...)
	return c
}

func (c *TestClient) Exec(cmd string) (Response, error) {
	c.t.Helper()
	c.commands = append(c.commands, cmd)

	if len(c.execs) > 0 && c.execs[0].Cmd == cmd {
		e := c.execs[0]
		c.execs = c.execs[1:]
		c.events = append(c.events, e.Events...)
		return e.Resp, e.Err
	}

	switch cmd {
	case at.CmdMultipleConnections, at.CmdPassiveReceiveMode:
		return Response{Lines: []string{at.OK}}, nil
	}

	c.t.Fatalf("unexpected command %q", cmd)
	return Response{}, nil
}

func (c *TestClient) ExecRaw(data []byte) error {
	c.t.Helper()
	c.payloads = append(c.payloads, append([]byte(nil), data...))

	if len(c.raws) == 0 {
		c.t.Fatalf("unexpected payload write of %d bytes", len(data))
	}
	e := c.raws[0]
	c.raws = c.raws[1:]
	c.events = append(c.events, e.Events...)
	return e.Err
}

func (c *TestClient) PollEvent() (at.Event, bool) {
	if len(c.events) == 0 {
		return at.Event{}, false
	}
	event := c.events[0]
	c.events = c.events[1:]
	return event, true
}

func (c *TestClient) Reset() {
	c.resets++
}

// Commands returns all commands issued so far.
func (c *TestClient) Commands() []string {
	return c.commands
}

// Payloads returns all raw payload writes so far.
func (c *TestClient) Payloads() [][]byte {
	return c.payloads
}

// Resets returns the number of Reset calls.
func (c *TestClient) Resets() int {
	return c.resets
}
