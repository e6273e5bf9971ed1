package clientstream

import "golang.org/x/net/http2"

// FrameWriter is the concrete realization of the spec's "Frame Codec
// Interface" (§2.1): the stream actor only ever calls these three
// methods, never touches the underlying framer directly, and tests
// can substitute a buffer-backed instance for the production one.
type FrameWriter interface {
	WriteHeaders(streamID uint32, endStream bool, headerBlock []byte) error
	WriteData(streamID uint32, endStream bool, data []byte) error
	WriteRSTStream(streamID uint32, code ErrCode) error
}

// framer implements FrameWriter on top of golang.org/x/net/http2's
// wire codec, grounded in ranbochen-h2stream/session.go's
// http2.NewFramer(...) construction and Framer() accessor.
type framer struct {
	fr *http2.Framer
}

// NewFrameWriter wraps an *http2.Framer constructed by the caller
// (typically via http2.NewFramer(w, r) over the connection's TLS
// socket) as a FrameWriter.
func NewFrameWriter(fr *http2.Framer) FrameWriter {
	return &framer{fr: fr}
}

func (f *framer) WriteHeaders(streamID uint32, endStream bool, headerBlock []byte) error {
	return f.fr.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: headerBlock,
		EndStream:     endStream,
		EndHeaders:    true, // CONTINUATION is never used on send; see spec §4.2 step 3.
	})
}

func (f *framer) WriteData(streamID uint32, endStream bool, data []byte) error {
	return f.fr.WriteData(streamID, endStream, data)
}

func (f *framer) WriteRSTStream(streamID uint32, code ErrCode) error {
	return f.fr.WriteRSTStream(streamID, code)
}
