package clientstream

import "sync"

// State is one of the six states of RFC 7540 §5.1 a client stream can
// occupy, per spec §3.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateHalfClosedLocal
	StateHalfClosedRemote
	StateReservedRemote
	StateClosed
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateOpen:             "open",
	StateHalfClosedLocal:  "half-closed-local",
	StateHalfClosedRemote: "half-closed-remote",
	StateReservedRemote:   "reserved-remote",
	StateClosed:           "closed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Inbound events, per spec §4.1's alphabet. Each carries the raw
// wire-encoded fragment for header events; HPACK decoding happens
// inside the actor, never before dispatch, so the connection's
// demultiplexer never touches the shared dynamic tables itself.
type (
	HeadersEvent struct {
		Fragment  []byte
		EndStream bool
	}
	ContinuationEvent struct {
		Fragment []byte
	}
	PushPromiseEvent struct {
		Fragment []byte
	}
	DataEvent struct {
		Data      []byte
		EndStream bool
	}
	ResetEvent struct {
		Code ErrCode
	}
)

// closeCmd is the self-posted internal command of spec §4.1; never
// sent by an owner.
type closeCmd struct{}

// sendHeadersCmd is the internal representation of the public
// SendHeaders call.
type sendHeadersCmd struct {
	headers []HeaderField
	payload []byte
	errCh   chan error
}

// Stream is the per-exchange actor this package exists to implement:
// the state machine of spec §4.1 plus the header/body accumulation of
// spec §3, running as its own goroutine with a single mailbox, per
// spec §5. Grounded in ranbochen-h2stream/stream.go's struct shape
// (id/state/header/body fields, ID()/Context()-style accessors) and
// ranbochen-h2stream/session.go's serve() dispatch loop, scaled down
// from one loop per connection to one loop per stream.
type Stream struct {
	id   uint32
	conn ConnContext

	// SuppressResetOnRemoteClose opts out of the source quirk documented
	// in spec §9 open question 2: by default, entry to half-closed-remote
	// unconditionally emits RST_STREAM before closing, exactly as spec
	// §4.1's entry action and §8 scenario 1 specify. Setting this true
	// gives the "production re-implementation" behavior §9 suggests
	// (close directly, no reset) but is opt-in, not the default. See
	// DESIGN.md.
	SuppressResetOnRemoteClose bool

	mailbox chan interface{}
	done    chan struct{}

	// Owned exclusively by the actor goroutine once Start has run;
	// runningOn checks that Start has run before dispatch.
	state   State
	headers []HeaderField
	body    []byte

	runningOn *actorLock
}

// New constructs a stream in the idle state. Per spec §3's
// invariants, id is immutable from here on.
func New(conn ConnContext, id uint32) *Stream {
	return &Stream{
		id:        id,
		conn:      conn,
		state:     StateIdle,
		mailbox:   make(chan interface{}, 8),
		done:      make(chan struct{}),
		runningOn: newActorLock(),
	}
}

// ID returns the stream's id.
func (st *Stream) ID() uint32 { return st.id }

// State returns the stream's current state. Safe to call from any
// goroutine only after the stream has closed (Done is closed); while
// running, this is racy by design, matching spec §5's single-actor
// ownership model — callers that need a live view should observe the
// stream only through its completion sink.
func (st *Stream) State() State { return st.state }

// Done is closed once the stream has published its terminal message
// (or, on an absorbed reset/hpack error, closed without one) and the
// actor goroutine has exited.
func (st *Stream) Done() <-chan struct{} { return st.done }

// Start launches the actor goroutine (spec's "start").
func (st *Stream) Start() {
	go st.run()
}

// Recv enqueues an inbound event (spec's "recv"). It does not block
// once the stream has closed.
func (st *Stream) Recv(ev interface{}) {
	switch ev.(type) {
	case HeadersEvent, ContinuationEvent, PushPromiseEvent, DataEvent, ResetEvent:
	default:
		panic("clientstream: Recv called with a non-event value")
	}
	select {
	case st.mailbox <- ev:
	case <-st.done:
	}
}

// SendHeaders enqueues the outbound send_headers command (spec's
// "send_headers") and blocks until it has been accepted or rejected
// by the actor, or the stream has already closed.
func (st *Stream) SendHeaders(headers []HeaderField, payload []byte) error {
	cmd := sendHeadersCmd{headers: headers, payload: payload, errCh: make(chan error, 1)}
	select {
	case st.mailbox <- cmd:
	case <-st.done:
		return &ProtocolStateError{StreamID: st.id, State: st.state, Event: "send_headers"}
	}
	select {
	case err := <-cmd.errCh:
		return err
	case <-st.done:
		return nil
	}
}

// Cancel models external cancellation (spec §5): delivering a
// self-inflicted RST_STREAM to the actor's own mailbox. Identical
// handling to a peer-inflicted reset.
func (st *Stream) Cancel(code ErrCode) {
	st.Recv(ResetEvent{Code: code})
}

func (st *Stream) run() {
	st.runningOn.bind()
	for {
		select {
		case msg := <-st.mailbox:
			if st.dispatch(msg) {
				close(st.done)
				return
			}
		}
	}
}

// dispatch processes one mailbox item to completion (spec §5: "an
// actor processes one event to completion before handling the
// next"). It returns true once the stream has reached StateClosed and
// the actor should halt.
func (st *Stream) dispatch(msg interface{}) bool {
	st.runningOn.check()
	if st.state == StateClosed {
		// Append-only invariant: once closed, nothing further mutates
		// the stream. Any straggling mailbox item is dropped.
		return true
	}

	switch ev := msg.(type) {
	case sendHeadersCmd:
		ev.errCh <- st.handleSendHeaders(ev.headers, ev.payload)
	case HeadersEvent:
		st.handleHeaders(ev)
	case ContinuationEvent:
		st.handleContinuation(ev)
	case PushPromiseEvent:
		st.handlePushPromise(ev)
	case DataEvent:
		st.handleData(ev)
	case ResetEvent:
		st.handleReset(ev)
	case closeCmd:
		st.closeStream(true)
	default:
		panic("clientstream: unknown mailbox item")
	}
	return st.state == StateClosed
}

func (st *Stream) handleContinuation(ev ContinuationEvent) {
	fields, err := st.conn.Codec().DecodeFragment(ev.Fragment)
	if err != nil {
		st.abortHpack(err)
		return
	}
	st.headers = append(st.headers, fields...)
	// state unchanged, per table row "idle | CONTINUATION{f} | ... | idle"
	// (and, by the HEADERS row's state-agnostic handling, any other state).
}

func (st *Stream) handlePushPromise(ev PushPromiseEvent) {
	fields, err := st.conn.Codec().DecodeFragment(ev.Fragment)
	if err != nil {
		st.abortHpack(err)
		return
	}
	st.headers = append(st.headers, fields...)
	resp := newPushedResponse(st.id, append([]HeaderField(nil), st.headers...))
	st.conn.Publish(Message{Kind: MessagePushPromise, Response: resp})
	st.setState(StateReservedRemote)
}

func (st *Stream) handleHeaders(ev HeadersEvent) {
	fields, err := st.conn.Codec().DecodeFragment(ev.Fragment)
	if err != nil {
		st.abortHpack(err)
		return
	}
	st.headers = append(st.headers, fields...)
	if ev.EndStream {
		st.reachRemoteHalfClose()
	}
}

func (st *Stream) handleData(ev DataEvent) {
	if len(ev.Data) > 0 {
		st.body = append(st.body, ev.Data...)
	}
	if ev.EndStream {
		st.reachRemoteHalfClose()
	}
}

// reachRemoteHalfClose implements the table's END_STREAM handling for
// both HEADERS and DATA: any state, on end_stream, moves to
// half-closed-remote (spec §4.1's "any" row).
func (st *Stream) reachRemoteHalfClose() {
	st.setState(StateHalfClosedRemote)
}

func (st *Stream) handleReset(ev ResetEvent) {
	// PeerReset is absorbed per spec §7: close silently, publish
	// nothing, discard any partial response.
	st.vlogf("reset by peer: %s", streamError(st.id, ev.Code))
	st.closeStream(false)
}

func (st *Stream) abortHpack(err error) {
	st.vlogf("hpack error, aborting: %v", err)
	st.closeStream(false)
}

// setState transitions the stream and runs that state's entry
// action, per spec §4.1's Mealy/Moore hybrid.
func (st *Stream) setState(s State) {
	st.state = s
	switch s {
	case StateHalfClosedRemote:
		st.onEnterHalfClosedRemote()
	}
}

func (st *Stream) onEnterHalfClosedRemote() {
	if !st.SuppressResetOnRemoteClose {
		if err := st.conn.Frames().WriteRSTStream(st.id, 0); err != nil {
			st.vlogf("write RST_STREAM failed: %v", err)
		}
	}
	// self-post close, per spec §4.1's entry action for this state.
	st.dispatch(closeCmd{})
}

// closeStream transitions to StateClosed and, if publish is true,
// delivers the finished Response before halting. publish is false
// for PeerReset and HpackError closures per spec §7.
func (st *Stream) closeStream(publish bool) {
	st.state = StateClosed
	if publish {
		resp := newResponse(st.id, st.headers, st.body, "")
		st.conn.Publish(Message{Kind: MessageFinished, Response: resp})
	}
}

// actorLock asserts that dispatch runs only after Start has bound the
// actor, grounded in ranbochen-h2stream/session.go's serveG
// goroutineLock field (spec §5: "event handling is non-reentrant per
// actor"). It does not record or compare goroutine identity.
type actorLock struct {
	mu  sync.Mutex
	set bool
	id  uint64
}

func newActorLock() *actorLock { return &actorLock{} }

func (l *actorLock) bind() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set = true
}

func (l *actorLock) check() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.set {
		panic("clientstream: actor method called before Start")
	}
}
