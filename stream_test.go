package clientstream

import (
	"bytes"
	"testing"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/hpack"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// TestClientStream runs the Ginkgo suite, following
// ranbochen-h2stream/h2stream_test.go's harness style.
func TestClientStream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "clientstream")
}

// testHarness wires a Stream to an in-memory bytes.Buffer framer and
// a real hpack codec, standing in for the TCP-loopback harness the
// teacher uses (getConn/getSess in h2stream_test.go) since the
// transport itself is out of this spec's scope.
type testHarness struct {
	buf      *bytes.Buffer
	fr       *http2.Framer
	codec    HeaderCodec
	messages chan Message
	conn     ConnContext
	settings PeerSettings
}

func newHarness(authority string, maxFrameSize uint32) *testHarness {
	buf := &bytes.Buffer{}
	fr := http2.NewFramer(buf, buf)
	h := &testHarness{
		buf:      buf,
		fr:       fr,
		codec:    NewHeaderCodec(DefaultHeaderTableSize),
		messages: make(chan Message, 8),
		settings: PeerSettings{MaxFrameSize: maxFrameSize, HeaderTableSize: DefaultHeaderTableSize},
	}
	h.conn = NewConnContext(authority, "https", func() PeerSettings { return h.settings },
		NewFrameWriter(fr), h.codec, func(m Message) { h.messages <- m })
	return h
}

func (h *testHarness) encodeHeaders(fields []HeaderField) []byte {
	var buf bytes.Buffer
	enc := hpack.NewEncoder(&buf)
	for _, f := range fields {
		_ = enc.WriteField(f)
	}
	return buf.Bytes()
}

func (h *testHarness) readFrame() (http2.Frame, error) {
	return h.fr.ReadFrame()
}

func (h *testHarness) expectMessage() Message {
	select {
	case m := <-h.messages:
		return m
	case <-time.After(2 * time.Second):
		Fail("timed out waiting for a completion-sink message")
		return Message{}
	}
}

var _ = Describe("Stream", func() {
	It("Simple GET, single DATA frame (scenario 1)", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.Start()

		frag := h.encodeHeaders([]HeaderField{
			{Name: ":status", Value: "200"},
			{Name: "content-type", Value: "text/plain"},
		})
		st.Recv(HeadersEvent{Fragment: frag, EndStream: false})
		st.Recv(DataEvent{Data: []byte("hello"), EndStream: true})

		msg := h.expectMessage()
		Expect(msg.Kind).To(Equal(MessageFinished))
		Expect(msg.Response.ID).To(Equal(uint32(1)))
		Expect(msg.Response.Body).To(Equal([]byte("hello")))
		Expect(msg.Response.HasStatus).To(BeTrue())
		Expect(msg.Response.Status).To(Equal(200))
		v, ok := GetHeader(msg.Response.Headers, "content-type")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("text/plain"))

		Eventually(st.Done()).Should(BeClosed())
		Expect(st.State()).To(Equal(StateClosed))

		// entry to half-closed-remote unconditionally emits RST_STREAM
		// by default, per spec §4.1's entry action and §8 scenario 1.
		f, err := h.readFrame()
		Expect(err).NotTo(HaveOccurred())
		rst, ok := f.(*http2.RSTStreamFrame)
		Expect(ok).To(BeTrue())
		Expect(rst.StreamID).To(Equal(uint32(1)))
	})

	It("suppresses the reset-on-completion quirk only when opted out", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.SuppressResetOnRemoteClose = true
		st.Start()

		frag := h.encodeHeaders([]HeaderField{{Name: ":status", Value: "200"}})
		st.Recv(HeadersEvent{Fragment: frag, EndStream: true})
		h.expectMessage()
		Eventually(st.Done()).Should(BeClosed())

		Expect(h.buf.Len()).To(Equal(0))
	})

	It("Chunked PUT (scenario 2)", func() {
		h := newHarness("example.com", 4)
		st := New(h.conn, 3)
		st.Start()

		err := st.SendHeaders([]HeaderField{{Name: "content-type", Value: "text/plain"}}, []byte("ABCDEFGHIJ"))
		Expect(err).NotTo(HaveOccurred())
		Expect(st.State()).To(Equal(StateOpen))

		hf, err := h.readFrame()
		Expect(err).NotTo(HaveOccurred())
		headersFrame, ok := hf.(*http2.HeadersFrame)
		Expect(ok).To(BeTrue())
		Expect(headersFrame.HeadersEnded()).To(BeTrue())
		Expect(headersFrame.StreamEnded()).To(BeFalse())

		dec := hpack.NewDecoder(DefaultHeaderTableSize, nil)
		fields, err := dec.DecodeFull(headersFrame.HeaderBlockFragment())
		Expect(err).NotTo(HaveOccurred())
		Expect(fields[0].Name).To(Equal(":authority"))
		Expect(fields[1].Name).To(Equal(":scheme"))
		Expect(fields[1].Value).To(Equal("https"))
		Expect(fields[2].Name).To(Equal("content-type"))

		var chunks [][]byte
		var ends []bool
		for i := 0; i < 3; i++ {
			f, err := h.readFrame()
			Expect(err).NotTo(HaveOccurred())
			df, ok := f.(*http2.DataFrame)
			Expect(ok).To(BeTrue())
			chunks = append(chunks, append([]byte(nil), df.Data()...))
			ends = append(ends, df.StreamEnded())
		}
		Expect(chunks).To(Equal([][]byte{[]byte("ABCD"), []byte("EFGH"), []byte("IJ")}))
		Expect(ends).To(Equal([]bool{false, false, true}))
	})

	It("Peer reset mid-stream (scenario 3)", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.Start()

		frag := h.encodeHeaders([]HeaderField{{Name: ":status", Value: "200"}})
		st.Recv(HeadersEvent{Fragment: frag, EndStream: false})
		st.Recv(ResetEvent{Code: http2.ErrCodeCancel})

		Eventually(st.Done()).Should(BeClosed())
		Expect(st.State()).To(Equal(StateClosed))
		Expect(h.messages).To(HaveLen(0))
		Expect(h.buf.Len()).To(Equal(0))
	})

	It("Push promise (scenario 4)", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 2)
		st.Start()

		frag := h.encodeHeaders([]HeaderField{
			{Name: ":method", Value: "GET"},
			{Name: ":path", Value: "/a"},
		})
		st.Recv(PushPromiseEvent{Fragment: frag})

		msg := h.expectMessage()
		Expect(msg.Kind).To(Equal(MessagePushPromise))
		Expect(msg.Response.Body).To(BeEmpty())
		Expect(msg.Response.HasStatus).To(BeFalse())
		v, ok := GetHeader(msg.Response.Headers, ":path")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("/a"))
		Expect(msg.Response.PushedRequest.Method).To(Equal("GET"))
		Expect(msg.Response.PushedRequest.Path).To(Equal("/a"))

		// the actor keeps running; it is not done yet.
		Consistently(st.Done(), "100ms").ShouldNot(BeClosed())
	})

	It("CONTINUATION in idle (scenario 5)", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.Start()

		frag := h.encodeHeaders([]HeaderField{{Name: "x-trace", Value: "abc"}})
		st.Recv(ContinuationEvent{Fragment: frag})

		Consistently(st.Done(), "100ms").ShouldNot(BeClosed())
		Expect(h.messages).To(HaveLen(0))
	})

	It("sorts pseudo-headers before regular headers (scenario 6)", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.Start()

		err := st.SendHeaders([]HeaderField{{Name: "x-a", Value: "1"}, {Name: "x-b", Value: "2"}}, nil)
		Expect(err).NotTo(HaveOccurred())
		// the table's To-state column is "open" even for a bodyless
		// request that set END_STREAM on HEADERS; spec §9 open question 1
		// flags this as a likely bug but preserves it rather than fixing it.
		Expect(st.State()).To(Equal(StateOpen))

		hf, err := h.readFrame()
		Expect(err).NotTo(HaveOccurred())
		headersFrame := hf.(*http2.HeadersFrame)
		Expect(headersFrame.StreamEnded()).To(BeTrue())

		dec := hpack.NewDecoder(DefaultHeaderTableSize, nil)
		fields, err := dec.DecodeFull(headersFrame.HeaderBlockFragment())
		Expect(err).NotTo(HaveOccurred())
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Name
		}
		Expect(names).To(Equal([]string{":authority", ":scheme", "x-a", "x-b"}))
	})

	It("rejects send_headers after the actor has left idle", func() {
		h := newHarness("example.com", DefaultMaxFrameSize)
		st := New(h.conn, 1)
		st.Start()

		Expect(st.SendHeaders(nil, nil)).NotTo(HaveOccurred())
		err := st.SendHeaders(nil, nil)
		Expect(err).To(HaveOccurred())
		var pse *ProtocolStateError
		Expect(err).To(BeAssignableToTypeOf(pse))
	})
})

var _ = Describe("GetHeader", func() {
	It("is a case-sensitive linear scan returning the first match", func() {
		headers := []HeaderField{
			{Name: ":status", Value: "200"},
			{Name: ":status", Value: "should-not-win"},
			{Name: "Content-Type", Value: "wrong-case"},
		}
		v, ok := GetHeader(headers, ":status")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("200"))

		_, ok = GetHeader(headers, "content-type")
		Expect(ok).To(BeFalse())
	})
})
