package wifi

import (
	"fmt"
	"net/netip"
	"slices"

	"github.com/dbrgn/rt-esp-at-nal/at"
)

// Socket is an opaque handle for one link of the module. It carries no state
// of its own; all state lives in the adapter slot it names. A Socket is
// consumed by Close and must not be used afterwards.
type Socket struct {
	linkID int
}

// Socket opens and returns a new socket handle. When all links are in use,
// ErrNoSocketAvailable is returned.
//
// On first call the module is configured for multiplexed connections.
func (a *Adapter) Socket() (Socket, error) {
	a.processEvents()

	if err := a.enableMultipleConnections(); err != nil {
		return Socket{}, err
	}
	return a.openSocket()
}

// Connect opens a TCP connection to the given remote. Both IPv4 and IPv6
// remotes are supported. ErrAlreadyConnected is returned when the socket is
// connected; it needs to be closed first.
//
// On first call the module is configured for passive receiving mode, so
// incoming data is buffered on the module until pulled with Receive.
func (a *Adapter) Connect(socket *Socket, remote netip.AddrPort) error {
	a.processEvents()

	if a.sockets[socket.linkID] == stateConnected {
		return ErrAlreadyConnected
	}

	if err := a.enablePassiveReceiveMode(); err != nil {
		return err
	}
	a.alreadyConnected = false

	resp, cmdErr := a.client.Exec(at.ConnectSocket(socket.linkID, remote))
	if resp.Contains(at.AlreadyConnected) {
		a.alreadyConnected = true
	}
	a.processEvents()

	// The module answered that the link is already connected, meaning a
	// connect notification was missed earlier. Trust the module.
	if a.alreadyConnected {
		a.sockets[socket.linkID] = stateConnected
		return nil
	}

	if cmdErr != nil {
		return fmt.Errorf("connect failed: %w", cmdErr)
	}
	if a.sockets[socket.linkID] != stateConnected {
		return ErrUnconfirmedSocketState
	}

	// A fresh connection has no backlog
	a.bytesAvailable[socket.linkID] = 0
	return nil
}

// IsConnected reports whether the socket is currently connected. Connection
// aborts by the remote side are taken into account.
func (a *Adapter) IsConnected(socket *Socket) (bool, error) {
	a.processEvents()
	return a.sockets[socket.linkID] == stateConnected, nil
}

// Send transmits the given data and returns the number of bytes sent. The
// data is divided into blocks of the configured tx chunk size, each confirmed
// by the module before the next one is issued. There is no partial success:
// an error means the caller must retry the whole buffer.
func (a *Adapter) Send(socket *Socket, data []byte) (int, error) {
	a.processEvents()

	if err := a.assertSocketConnected(socket); err != nil {
		return 0, err
	}

	for chunk := range slices.Chunk(data, a.txChunkSize) {
		if _, err := a.client.Exec(at.PrepareSend(socket.linkID, len(chunk))); err != nil {
			return 0, fmt.Errorf("prepare transmission: %w", err)
		}
		if err := a.sendChunk(chunk); err != nil {
			return 0, err
		}
	}

	return len(data), nil
}

// Receive moves buffered data (if any) into the given destination and
// returns the number of bytes written. ErrWouldBlock signals that no data is
// buffered yet; the caller re-polls.
//
// Data is pulled in blocks of the configured rx chunk size until either the
// destination is full or no buffered data remains.
func (a *Adapter) Receive(socket *Socket, dest []byte) (int, error) {
	a.processEvents()

	if a.bytesAvailable[socket.linkID] == 0 {
		return 0, ErrWouldBlock
	}

	buffer := newAssembler(dest, a.rxChunkSize)

	for a.bytesAvailable[socket.linkID] > 0 && !buffer.full() {
		resp, err := a.client.Exec(at.ReceiveData(socket.linkID, buffer.nextLength()))
		if err != nil {
			return 0, fmt.Errorf("receive data: %w", err)
		}
		a.processEvents()

		if len(resp.Payload) == 0 {
			return 0, ErrReceiveFailed
		}

		a.reduceBytesAvailable(socket.linkID, len(resp.Payload))
		if err := buffer.append(resp.Payload); err != nil {
			return 0, err
		}
	}

	return buffer.filled(), nil
}

// Close consumes the socket handle and releases its link.
//
// If the socket was closed by the remote side or never connected, no command
// is sent and only the internal state is updated. The link is marked closed
// even when the close command fails, so it can be reused and is never leaked.
func (a *Adapter) Close(socket Socket) error {
	a.processEvents()

	// Not connected yet or already closed remotely
	if a.sockets[socket.linkID] == stateClosing || a.sockets[socket.linkID] == stateOpen {
		a.sockets[socket.linkID] = stateClosed
		return nil
	}

	var result error
	if _, err := a.client.Exec(at.CloseSocket(socket.linkID)); err != nil {
		result = fmt.Errorf("close failed: %w", err)
	}
	a.processEvents()

	if result == nil && a.sockets[socket.linkID] != stateClosing {
		result = ErrUnconfirmedSocketState
	}

	a.sockets[socket.linkID] = stateClosed
	return result
}

// sendChunk transmits one chunk and busy-polls reconciliation against the
// send timer until the module delivers a verdict.
func (a *Adapter) sendChunk(chunk []byte) error {
	a.sendConfirmed = confirmNone
	a.sendAcceptedValid = false
	a.sendInFlight = true
	defer func() { a.sendInFlight = false }()

	if err := a.client.ExecRaw(chunk); err != nil {
		return fmt.Errorf("transmit chunk: %w", err)
	}
	a.timer.Start(a.sendTimeout)

	for {
		a.processEvents()

		switch a.sendConfirmed {
		case confirmFailed:
			// Reset framing state, otherwise the client stays stuck on a
			// pending data prompt.
			a.client.Reset()
			return ErrSendFailed
		case confirmOK:
			if a.sendAcceptedValid && a.sendAccepted != len(chunk) {
				return ErrPartialSend
			}
			return nil
		}

		if a.timer.Expired() {
			a.client.Reset()
			return ErrSendTimeout
		}
	}
}

// enableMultipleConnections configures multiplexed links once. The state is
// sticky, so the command is sent a single time per adapter.
func (a *Adapter) enableMultipleConnections() error {
	if a.multiEnabled {
		return nil
	}
	if _, err := a.client.Exec(at.CmdMultipleConnections); err != nil {
		return fmt.Errorf("enable multiple connections: %w", err)
	}
	a.multiEnabled = true
	return nil
}

// enablePassiveReceiveMode configures passive socket receiving once. The
// state is sticky, so the command is sent a single time per adapter.
func (a *Adapter) enablePassiveReceiveMode() error {
	if a.passiveEnabled {
		return nil
	}
	if _, err := a.client.Exec(at.CmdPassiveReceiveMode); err != nil {
		return fmt.Errorf("enable passive receiving mode: %w", err)
	}
	a.passiveEnabled = true
	return nil
}

// openSocket assigns a free link. The allocator never hands out a link that
// is not closed, so at most one live handle exists per link.
func (a *Adapter) openSocket() (Socket, error) {
	for linkID, state := range a.sockets {
		if state == stateClosed {
			a.sockets[linkID] = stateOpen
			return Socket{linkID: linkID}, nil
		}
	}
	return Socket{}, ErrNoSocketAvailable
}

func (a *Adapter) assertSocketConnected(socket *Socket) error {
	if a.sockets[socket.linkID] == stateClosing {
		return ErrClosingSocket
	}
	if a.sockets[socket.linkID] != stateConnected {
		return ErrSocketUnconnected
	}
	return nil
}

// reduceBytesAvailable decrements the receive accounting for a link,
// saturating at zero.
func (a *Adapter) reduceBytesAvailable(linkID, length int) {
	if a.bytesAvailable[linkID] < length {
		a.bytesAvailable[linkID] = 0
		return
	}
	a.bytesAvailable[linkID] -= length
}
