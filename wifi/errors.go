package wifi

import "errors"

var (
	// ErrNoDialer is returned when an Adapter is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the radio module.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrWouldBlock signals that an operation cannot complete right now and
	// should be retried later. Receive returns it while no data is buffered
	// for the socket; this is the non-blocking contract, not a failure.
	ErrWouldBlock = errors.New("operation would block")

	// ErrNoSocketAvailable is returned by Socket when all links of the
	// module are in use.
	ErrNoSocketAvailable = errors.New("no socket available")

	// ErrAlreadyConnected is returned by Connect when the socket is already
	// connected to a remote. The socket needs to be closed first.
	ErrAlreadyConnected = errors.New("socket already connected")

	// ErrSocketUnconnected is returned when sending on a socket that is not
	// connected.
	ErrSocketUnconnected = errors.New("socket not connected")

	// ErrClosingSocket is returned when operating on a socket that was
	// closed by the remote side. The handle still exists and needs to be
	// fully closed by calling Close.
	ErrClosingSocket = errors.New("socket closed by remote")

	// ErrUnconfirmedSocketState is returned when a connect or close command
	// was answered with OK but the matching state transition was never
	// observed as an unsolicited message.
	ErrUnconfirmedSocketState = errors.New("unconfirmed socket state")

	// ErrPartialSend is returned when the module confirmed a transmission
	// but echoed a byte count that does not match the chunk length.
	ErrPartialSend = errors.New("partial send")

	// ErrSendFailed is returned when the module signaled a failed
	// transmission.
	ErrSendFailed = errors.New("send failed")

	// ErrSendTimeout is returned when the module neither confirmed nor
	// rejected a transmission within the configured send timeout. It is
	// distinct from ErrSendFailed so callers can tell a module-signaled
	// failure from a missing confirmation.
	ErrSendTimeout = errors.New("send confirmation timeout")

	// ErrReceiveFailed is returned when a receive data command did not
	// produce any payload.
	ErrReceiveFailed = errors.New("receive failed")

	// ErrReceiveOverflow is returned when the module returns more data than
	// the remaining destination buffer can hold. This indicates a firmware
	// contract violation and is not retryable.
	ErrReceiveOverflow = errors.New("receive overflow")

	// ErrInvalidSSIDLength is returned when the given SSID is longer than
	// the maximum of 32 bytes.
	ErrInvalidSSIDLength = errors.New("SSID longer than 32 bytes")

	// ErrInvalidPasswordLength is returned when the given password is longer
	// than the maximum of 63 bytes.
	ErrInvalidPasswordLength = errors.New("password longer than 63 bytes")

	// ErrAddressParse is returned when the module's address records cannot
	// be parsed.
	ErrAddressParse = errors.New("address parse error")

	// ErrCommandTimeout is returned by the client when no final response
	// arrived within the command timeout.
	ErrCommandTimeout = errors.New("command timeout")
)
