package at

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// Splitter is used for tokenizing ESP-AT output. It uses the signature of
// bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// It splits the input by CRLF line endings and additionally recognizes two
// special frames:
//
//   - The transmission prompt ("> ") emitted after a send prepare command.
//   - Receive data responses ("+CIPRECVDATA,<len>:<payload>"), which carry a
//     binary payload of exactly <len> bytes. Header and payload are returned
//     as a single token, so payload bytes containing CRLF never break framing.
//
// Important: This splitter assumes echo mode is disabled (ATE0). With echo
// enabled it would need modification to skip command echoes preceding the
// actual response.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match transmission prompt
	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[0:len(Prompt)], nil
	}

	// 2. Match receive data frame with binary payload
	if bytes.HasPrefix(data, []byte(RecvDataPrefix)) {
		rest := data[len(RecvDataPrefix):]
		colon := bytes.IndexByte(rest, ':')
		if colon < 0 {
			if atEOF {
				return len(data), data, nil
			}
			return 0, nil, nil
		}
		length, err := strconv.Atoi(string(rest[:colon]))
		if err == nil && length >= 0 {
			total := len(RecvDataPrefix) + colon + 1 + length
			if len(data) < total {
				if atEOF {
					return len(data), data, nil
				}
				return 0, nil, nil
			}
			return total, data[0:total], nil
		}
		// Malformed length field, fall through to line splitting
	}

	// 3. Match standard line ending with CRLF
	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// RecvDataPayload extracts the binary payload from a receive data token as
// framed by Splitter. The second return value is false if the token is not a
// receive data frame.
func RecvDataPayload(token string) ([]byte, bool) {
	rest, ok := strings.CutPrefix(token, RecvDataPrefix)
	if !ok {
		return nil, false
	}
	lengthStr, payload, found := strings.Cut(rest, ":")
	if !found {
		return nil, false
	}
	if _, err := strconv.Atoi(lengthStr); err != nil {
		return nil, false
	}
	return []byte(payload), true
}

// Classify identifies the nature of a module output token
func Classify(line string) ResponseType {
	if line == Prompt {
		return TypePrompt
	}

	switch line {
	case OK, ERROR:
		return TypeFinal
	}

	if ParseEvent(line).Kind != EventUnknown {
		return TypeURC
	}

	return TypeData
}
