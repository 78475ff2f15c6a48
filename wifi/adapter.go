// Package wifi implements a non-blocking TCP client stack on top of an
// ESP-AT WiFi radio module.
//
// The module offers no real sockets to the host, only a command/response
// protocol interleaved with unsolicited notifications. The adapter turns
// that stream into a multi-socket TCP stack: it tracks the lifecycle of the
// module's five links, reconciles local expectations with asynchronously
// delivered notifications, and moves data in bounded, confirmed chunks.
//
// A single goroutine must own an Adapter; it is not internally synchronized.
package wifi

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/dbrgn/rt-esp-at-nal/at"
)

// MaxSockets is the number of concurrent links the module supports.
const MaxSockets = 5

// socketState tracks the lifecycle of one link.
type socketState int

const (
	// stateClosed: the link is unused and may be handed out
	stateClosed socketState = iota
	// stateOpen: the link was handed out by Socket but is not connected yet
	stateOpen
	// stateConnected: the connection is fully open
	stateConnected
	// stateClosing: the remote side closed the link, but the handle still
	// exists and needs to be consumed by calling Close
	stateClosing
)

// confirmState mirrors the module's asynchronous transmission verdict.
type confirmState int

const (
	confirmNone confirmState = iota
	confirmOK
	confirmFailed
)

// JoinState is a snapshot of the WiFi connection state.
type JoinState struct {
	// Connected is true if the station is associated with an access point.
	Connected bool
	// IPAssigned is true if an address lease was obtained.
	IPAssigned bool
}

// LocalAddress holds the local IP and MAC address records of the module.
// Address fields are zero values when the module did not report them.
type LocalAddress struct {
	IPv4          netip.Addr
	IPv6LinkLocal netip.Addr
	IPv6Global    netip.Addr
	MAC           string
}

// Adapter is the central driver for network communication over the module.
type Adapter struct {
	client Client
	timer  Timer
	// transport is held for Shutdown when the adapter dialed it itself
	transport Transport

	sendTimeout time.Duration
	txChunkSize int
	rxChunkSize int

	// WiFi connection state, updated only by event reconciliation
	joined     bool
	ipAssigned bool

	// Sticky one-shot module configuration flags
	multiEnabled   bool
	passiveEnabled bool

	// Link states and per-link receive byte accounting, index = link id
	sockets        [MaxSockets]socketState
	bytesAvailable [MaxSockets]int

	// Transfer accounting for the in-flight chunk
	sendConfirmed     confirmState
	sendAccepted      int
	sendAcceptedValid bool
	sendInFlight      bool

	// alreadyConnected observes a connect collision reported by the module
	// for the current attempt. Cleared only at the start of Connect.
	alreadyConnected bool
}

// New dials the configured transport and returns an adapter driving it with
// the system clock. The config should come from ConfigBuilder.Build.
func New(ctx context.Context, config Config) (*Adapter, error) {
	if config.Dialer == nil {
		return nil, ErrNoDialer
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}

	a := NewWithClient(newSerialClient(transport, config.ATTimeout), NewSystemTimer(), config)
	a.transport = transport
	return a, nil
}

// NewWithClient returns an adapter over an externally constructed client and
// timer. It is the injection seam for tests and custom transports.
func NewWithClient(client Client, timer Timer, config Config) *Adapter {
	config.setDefaults()
	return &Adapter{
		client:      client,
		timer:       timer,
		sendTimeout: config.SendTimeout,
		txChunkSize: config.TxChunkSize,
		rxChunkSize: config.RxChunkSize,
	}
}

// Shutdown closes the underlying transport if the adapter owns one.
func (a *Adapter) Shutdown() error {
	if a.transport == nil {
		return nil
	}
	return a.transport.Close()
}

// SetSendTimeout sets the timeout for transmission confirmations.
func (a *Adapter) SetSendTimeout(timeout time.Duration) {
	a.sendTimeout = timeout
}

// Join sets the WiFi credentials and returns the resulting connection state.
//
// Note: if the connection was not successful or is lost, the module retries
// on its own from time to time (by default every second). The state can be
// re-queried using JoinState.
func (a *Adapter) Join(ssid, password string) (JoinState, error) {
	if len(ssid) > 32 {
		return JoinState{}, ErrInvalidSSIDLength
	}
	if len(password) > 63 {
		return JoinState{}, ErrInvalidPasswordLength
	}

	a.processEvents()

	if _, err := a.client.Exec(at.CmdStationMode); err != nil {
		return JoinState{}, fmt.Errorf("set station mode: %w", err)
	}
	if _, err := a.client.Exec(at.JoinAccessPoint(ssid, password)); err != nil {
		return JoinState{}, fmt.Errorf("set credentials: %w", err)
	}

	a.processEvents()
	return JoinState{Connected: a.joined, IPAssigned: a.ipAssigned}, nil
}

// JoinState reconciles pending notifications and returns the current WiFi
// connection state without issuing any command.
func (a *Adapter) JoinState() JoinState {
	a.processEvents()
	return JoinState{Connected: a.joined, IPAssigned: a.ipAssigned}
}

// Address returns the local address records of the module.
func (a *Adapter) Address() (LocalAddress, error) {
	a.processEvents()

	resp, err := a.client.Exec(at.CmdObtainAddress)
	if err != nil {
		return LocalAddress{}, fmt.Errorf("obtain local address: %w", err)
	}

	return parseLocalAddress(resp.Lines)
}

// processEvents drains all pending notifications and applies each to the
// connection or link state. Afterwards one best-effort housekeeping command
// re-asserts passive receive mode; its result is intentionally discarded, it
// only exists to keep the module's receive path from stalling. Housekeeping
// is skipped while a transmission is waiting for confirmation, as the module
// does not accept commands between payload and verdict.
func (a *Adapter) processEvents() {
	for {
		event, ok := a.client.PollEvent()
		if !ok {
			break
		}
		a.applyEvent(event)
	}

	if a.passiveEnabled && !a.sendInFlight {
		_, _ = a.client.Exec(at.CmdPassiveReceiveMode)
	}
}

func (a *Adapter) applyEvent(event at.Event) {
	switch event.Kind {
	case at.EventWifiDisconnected:
		a.joined = false
		a.ipAssigned = false
	case at.EventWifiConnected:
		a.joined = true
	case at.EventGotIP:
		a.ipAssigned = true
	case at.EventSocketConnected:
		if event.LinkID >= 0 && event.LinkID < MaxSockets {
			a.sockets[event.LinkID] = stateConnected
		}
	case at.EventSocketClosed:
		if event.LinkID >= 0 && event.LinkID < MaxSockets {
			a.sockets[event.LinkID] = stateClosing
		}
	case at.EventDataAvailable:
		if event.LinkID >= 0 && event.LinkID < MaxSockets {
			a.bytesAvailable[event.LinkID] += event.Count
		}
	case at.EventSendAccepted:
		a.sendAccepted = event.Count
		a.sendAcceptedValid = true
	case at.EventSendOK:
		a.sendConfirmed = confirmOK
	case at.EventSendFail:
		a.sendConfirmed = confirmFailed
	case at.EventReady, at.EventUnknown:
		// no-op
	}
}

// parseLocalAddress decodes the CIFSR record lines. Records look like
//
//	+CIFSR:STAIP,"10.0.0.5"
//
// Unknown record tags are ignored.
func parseLocalAddress(lines []string) (LocalAddress, error) {
	var addr LocalAddress

	for _, line := range lines {
		rest, ok := strings.CutPrefix(line, at.AddressPrefix)
		if !ok {
			continue
		}
		tag, quoted, found := strings.Cut(rest, ",")
		if !found {
			continue
		}
		value := strings.Trim(quoted, `"`)

		switch tag {
		case "STAIP":
			parsed, err := netip.ParseAddr(value)
			if err != nil {
				return LocalAddress{}, fmt.Errorf("%w: %q", ErrAddressParse, value)
			}
			addr.IPv4 = parsed
		case "STAIP6LL":
			parsed, err := netip.ParseAddr(value)
			if err != nil {
				return LocalAddress{}, fmt.Errorf("%w: %q", ErrAddressParse, value)
			}
			addr.IPv6LinkLocal = parsed
		case "STAIP6GL":
			parsed, err := netip.ParseAddr(value)
			if err != nil {
				return LocalAddress{}, fmt.Errorf("%w: %q", ErrAddressParse, value)
			}
			addr.IPv6Global = parsed
		case "STAMAC":
			if len(value) > 17 {
				return LocalAddress{}, fmt.Errorf("%w: MAC %q too long", ErrAddressParse, value)
			}
			addr.MAC = value
		}
	}

	return addr, nil
}
