package clientstream

import "fmt"

// ProtocolStateError reports an operation attempted in a state the
// machine does not accept — currently only send_headers outside idle,
// since the transition table accepts HEADERS/DATA/CONTINUATION events
// universally regardless of state.
type ProtocolStateError struct {
	StreamID uint32
	State    State
	Event    string
}

func (e *ProtocolStateError) Error() string {
	return fmt.Sprintf("clientstream: stream %d: %s not accepted in state %s", e.StreamID, e.Event, e.State)
}

// HpackError wraps a header block decode or encode failure.
type HpackError struct {
	StreamID uint32
	Err      error
}

func (e *HpackError) Error() string {
	return fmt.Sprintf("clientstream: stream %d: hpack error: %v", e.StreamID, e.Err)
}

func (e *HpackError) Unwrap() error { return e.Err }

// TransportError wraps a write-sink (TLS socket) failure. Per spec
// §7 this propagates to the connection, which tears down all streams;
// this package only constructs and returns it, it never recovers
// from one itself.
type TransportError struct {
	StreamID uint32
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("clientstream: stream %d: transport error: %v", e.StreamID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PeerReset reports that RST_STREAM was received. Per spec §7 this is
// absorbed silently by the FSM (no finished message is published);
// the type exists for callers that want to distinguish a reset from a
// normal completion via logs or metrics, not to drive retries.
type PeerReset struct {
	StreamID uint32
	Code     ErrCode
}

func (e *PeerReset) Error() string {
	return fmt.Sprintf("clientstream: stream %d: reset by peer: %s", e.StreamID, e.Code)
}
