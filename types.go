// Package clientstream implements the per-stream state machine of a
// client-side HTTP/2 connection (RFC 7540 §5.1): the idle/open/
// half-closed/reserved-remote/closed transitions, header and body
// accumulation, and chunked outbound transmission under a peer's
// advertised SETTINGS_MAX_FRAME_SIZE. The byte-level framer, the TLS
// transport, and connection-level concerns (SETTINGS, WINDOW_UPDATE,
// PING, GOAWAY, stream-id allocation) are collaborators this package
// only talks to through narrow interfaces; it never implements them.
package clientstream

import (
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"
)

// ErrCode, StreamError and ConnectionError are the wire-level error
// vocabulary this package reports through. Aliased straight from
// golang.org/x/net/http2 rather than redeclared, following
// ranbochen-h2stream/types.go's adapt-don't-copy idiom.
type (
	ErrCode         = http2.ErrCode
	StreamError     = http2.StreamError
	ConnectionError = http2.ConnectionError
)

// HeaderField is a single (name, value) header pair. Aliased from
// hpack.HeaderField so headers never need conversion crossing the
// HPACK boundary.
type HeaderField = hpack.HeaderField

func streamError(id uint32, code ErrCode) StreamError {
	return StreamError{StreamID: id, Code: code}
}
