package clientstream

// MessageKind distinguishes the two message shapes a stream can
// publish to its completion sink, per spec §6: {finished, Response}
// and {push_promise, Response}.
type MessageKind int

const (
	MessageFinished MessageKind = iota
	MessagePushPromise
)

func (k MessageKind) String() string {
	if k == MessagePushPromise {
		return "push_promise"
	}
	return "finished"
}

// Message is what a stream actor hands to the completion sink.
type Message struct {
	Kind     MessageKind
	Response Response
}

// CompletionSink is spec §6's "sink.publish(conn_pid, message)"
// collaborator: where a stream delivers its one terminal message (or,
// for a push promise, its one preview message before continuing).
type CompletionSink func(Message)

// ConnContext is the spec's "Connection Context" component (§2.3): an
// immutable-to-the-stream view of everything the stream needs from
// its owning connection, but none of the connection's own state
// (SETTINGS bookkeeping, stream-id allocation, GOAWAY, ...) — those
// stay out of scope per spec §1. Grounded in the subset of
// ranbochen-h2stream/session.go's *Session that a *stream actually
// touches (Framer(), HeaderEncoder(), scheme/authority, Flush()).
type ConnContext interface {
	// Authority returns the authority string (host[:port]) used for
	// the :authority pseudo-header.
	Authority() string
	// Scheme returns "http" or "https" (default "https").
	Scheme() string
	// Settings fetches the peer's current settings snapshot.
	Settings() PeerSettings
	// Frames returns the Frame Codec Interface endpoint to write wire
	// bytes through.
	Frames() FrameWriter
	// Codec returns the HPACK Endpoints collaborator.
	Codec() HeaderCodec
	// Publish delivers a terminal or push-promise message to the
	// connection's completion sink.
	Publish(Message)
}

// staticConn is the simplest ConnContext: fixed authority/scheme, a
// live settings snapshot, and direct frame/hpack/publish endpoints.
// Connections in this package's scope are expected to either use this
// directly or wrap it; nothing here depends on net.Conn since the
// transport is out of scope per spec §1.
type staticConn struct {
	authority string
	scheme    string
	settings  SettingsSource
	frames    FrameWriter
	codec     HeaderCodec
	publish   CompletionSink
}

// NewConnContext builds a ConnContext from its collaborators. settings
// is called fresh on every SendHeaders that carries a payload so a
// connection can mutate its peer settings between calls.
func NewConnContext(authority, scheme string, settings SettingsSource, frames FrameWriter, codec HeaderCodec, publish CompletionSink) ConnContext {
	if scheme == "" {
		scheme = "https"
	}
	return &staticConn{
		authority: authority,
		scheme:    scheme,
		settings:  settings,
		frames:    frames,
		codec:     codec,
		publish:   publish,
	}
}

func (c *staticConn) Authority() string       { return c.authority }
func (c *staticConn) Scheme() string          { return c.scheme }
func (c *staticConn) Settings() PeerSettings  { return c.settings() }
func (c *staticConn) Frames() FrameWriter     { return c.frames }
func (c *staticConn) Codec() HeaderCodec      { return c.codec }
func (c *staticConn) Publish(m Message)       { c.publish(m) }
