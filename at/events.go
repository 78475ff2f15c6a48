package at

import (
	"strconv"
	"strings"
)

// EventKind enumerates the unsolicited messages the module may emit between
// or during command exchanges.
type EventKind int

const (
	// EventUnknown marks output that is not a recognized unsolicited message.
	EventUnknown EventKind = iota
	// EventReady is sent once after module startup or reset.
	EventReady
	// EventWifiConnected signals association with an access point.
	EventWifiConnected
	// EventWifiDisconnected signals loss of access point association.
	EventWifiDisconnected
	// EventGotIP signals that an IP address was assigned by the access point.
	EventGotIP
	// EventSocketConnected signals a confirmed TCP connection on a link.
	EventSocketConnected
	// EventSocketClosed signals that the remote side closed a link.
	EventSocketClosed
	// EventDataAvailable signals bytes buffered on the module for a link.
	EventDataAvailable
	// EventSendAccepted echoes the byte count the module accepted for
	// transmission.
	EventSendAccepted
	// EventSendOK confirms a data transmission.
	EventSendOK
	// EventSendFail signals a failed data transmission.
	EventSendFail
)

// Event is an unsolicited message decoded into a tagged value. LinkID and
// Count are only meaningful for the kinds that carry them.
type Event struct {
	Kind   EventKind
	LinkID int
	Count  int
}

// ParseEvent decodes a single output line into an Event. Lines that are not
// unsolicited messages decode to EventUnknown.
func ParseEvent(line string) Event {
	switch line {
	case UrcReady:
		return Event{Kind: EventReady}
	case UrcWifiConnected:
		return Event{Kind: EventWifiConnected}
	case UrcWifiDisconnect:
		return Event{Kind: EventWifiDisconnected}
	case UrcWifiGotIP:
		return Event{Kind: EventGotIP}
	case UrcSendOK:
		return Event{Kind: EventSendOK}
	case UrcSendFail:
		return Event{Kind: EventSendFail}
	}

	// +IPD,<link>,<len>
	if rest, ok := strings.CutPrefix(line, UrcDataAvailable); ok {
		linkStr, countStr, found := strings.Cut(rest, ",")
		if !found {
			return Event{Kind: EventUnknown}
		}
		link, err := strconv.Atoi(linkStr)
		if err != nil {
			return Event{Kind: EventUnknown}
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 0 {
			return Event{Kind: EventUnknown}
		}
		return Event{Kind: EventDataAvailable, LinkID: link, Count: count}
	}

	// <link>,CONNECT
	if rest, ok := strings.CutSuffix(line, ",CONNECT"); ok {
		if link, err := strconv.Atoi(rest); err == nil {
			return Event{Kind: EventSocketConnected, LinkID: link}
		}
	}

	// <link>,CLOSED
	if rest, ok := strings.CutSuffix(line, ",CLOSED"); ok {
		if link, err := strconv.Atoi(rest); err == nil {
			return Event{Kind: EventSocketClosed, LinkID: link}
		}
	}

	// Recv <n> bytes
	if rest, ok := strings.CutPrefix(line, "Recv "); ok {
		if countStr, ok := strings.CutSuffix(rest, " bytes"); ok {
			if count, err := strconv.Atoi(countStr); err == nil {
				return Event{Kind: EventSendAccepted, Count: count}
			}
		}
	}

	return Event{Kind: EventUnknown}
}
