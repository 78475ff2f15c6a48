package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "

	// Response Codes
	OK               = "OK"
	ERROR            = "ERROR"
	AlreadyConnected = "ALREADY CONNECTED"
	Busy             = "busy p..."

	// Unsolicited messages
	UrcReady          = "ready"
	UrcWifiConnected  = "WIFI CONNECTED"
	UrcWifiGotIP      = "WIFI GOT IP"
	UrcWifiDisconnect = "WIFI DISCONNECT"
	UrcSendOK         = "SEND OK"
	UrcSendFail       = "SEND FAIL"
	UrcDataAvailable  = "+IPD,"

	// Receive data response header. The length field is terminated by ':'
	// and followed by exactly that many payload bytes.
	RecvDataPrefix = "+CIPRECVDATA,"

	// Address record prefix emitted by the CIFSR command
	AddressPrefix = "+CIFSR:"
)

type ResponseType int

const (
	TypeFinal  ResponseType = iota // OK, ERROR
	TypeURC                        // Asynchronous notifications
	TypeData                       // Intermediate command output (+CIFSR: ...)
	TypePrompt                     // Transmission payload prompt
)
