package clientstream

// Default settings values, named per RFC 7540 §6.5.2 and mirroring
// ranbochen-h2stream/http2_defaults.go (exported here since this
// package has no connection type to keep them private behind).
const (
	// DefaultMaxFrameSize is the smallest legal SETTINGS_MAX_FRAME_SIZE,
	// and the value a peer must support even before any SETTINGS frame
	// has been exchanged.
	DefaultMaxFrameSize = 16384

	// DefaultHeaderTableSize is HPACK's default dynamic table size.
	DefaultHeaderTableSize = 4096

	// DefaultInitialWindowSize is RFC 7540 §6.9.2's default flow
	// control window. Unread by the core FSM (flow control is a
	// Non-goal); carried only so PeerSettings has a sensible default
	// for a future flow-control layer.
	DefaultInitialWindowSize = 65535
)
