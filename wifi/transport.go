package wifi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Transport represents an established, bidirectional byte stream to an ESP-AT
// radio module.
//
// A Transport is assumed to be already connected and ready for use. It
// provides the low-level I/O primitives required to send AT commands and
// receive responses. Typical implementations include serial ports, TCP
// connections to emulators, or in-memory fakes used for testing.
type Transport interface {
	io.ReadWriteCloser
}

// readTimeoutSetter is implemented by transports that support bounded reads,
// for example serial ports. The client uses it for the non-blocking event
// pump and for command deadlines; transports without it simply block.
type readTimeoutSetter interface {
	SetReadTimeout(t time.Duration) error
}

// Dialer opens a Transport to an ESP-AT radio module.
//
// Dialer abstracts how the module connection is created (for example, via a
// serial port, TCP-based emulator, or test double) and is intended to be used
// during adapter construction only. Once a Transport is obtained, the Dialer
// is no longer needed.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport.
	// It may perform blocking operations and should respect cancellation and
	// deadlines provided by the context. Dial returns an error if the
	// transport cannot be established.
	Dial(ctx context.Context) (Transport, error)
}

// SerialDialer opens an ESP-AT module over a serial port.
type SerialDialer struct {
	// PortName is the serial device, e.g. "/dev/ttyUSB0".
	PortName string
	// Mode holds the port parameters. If nil, 115200 8N1 is used, which is
	// the ESP-AT factory default.
	Mode *serial.Mode
}

// Dial implements the Dialer interface by opening the configured serial port.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("wifi: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("wifi: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: 115200,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", d.PortName, err)
	}

	return port, nil
}
