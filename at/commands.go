package at

import (
	"fmt"
	"net/netip"
)

// Commands without parameters.
const (
	// CmdStationMode switches the radio to station (client) mode.
	CmdStationMode = "AT+CWMODE=1"
	// CmdObtainAddress queries the local IP and MAC address records.
	CmdObtainAddress = "AT+CIFSR"
	// CmdMultipleConnections enables multiplexed links. Single connection
	// mode is the module default and cannot be toggled back once a link
	// was used.
	CmdMultipleConnections = "AT+CIPMUX=1"
	// CmdPassiveReceiveMode buffers incoming socket data on the module
	// until it is pulled explicitly with a receive data command.
	CmdPassiveReceiveMode = "AT+CIPRECVMODE=1"
)

// JoinAccessPoint builds the command setting the WiFi credentials. The module
// starts connecting as a side effect and retries on its own afterwards.
func JoinAccessPoint(ssid, password string) string {
	return fmt.Sprintf(`AT+CWJAP="%s","%s"`, ssid, password)
}

// ConnectSocket builds the TCP connect command for the given link. The
// address family selects between the TCP and TCPv6 connection types.
func ConnectSocket(linkID int, remote netip.AddrPort) string {
	addr := remote.Addr().Unmap()
	network := "TCPv6"
	if addr.Is4() {
		network = "TCP"
	}
	return fmt.Sprintf(`AT+CIPSTART=%d,"%s","%s",%d`, linkID, network, addr, remote.Port())
}

// PrepareSend announces a transmission of length bytes on the given link.
// The module answers with a payload prompt once it is ready.
func PrepareSend(linkID, length int) string {
	return fmt.Sprintf("AT+CIPSEND=%d,%d", linkID, length)
}

// ReceiveData requests up to length buffered bytes for the given link.
func ReceiveData(linkID, length int) string {
	return fmt.Sprintf("AT+CIPRECVDATA=%d,%d", linkID, length)
}

// CloseSocket builds the close command for the given link.
func CloseSocket(linkID int) string {
	return fmt.Sprintf("AT+CIPCLOSE=%d", linkID)
}
