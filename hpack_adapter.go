package clientstream

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// HeaderCodec is the concrete realization of the spec's "HPACK
// Endpoints" collaborator (§2.2): encode a full header list to an
// opaque block, and decode a fragment of one, emitting whatever
// fields completed during that call. Both operations are stateful
// (shared dynamic tables) but are only ever called from the owning
// stream's actor goroutine, per spec §5's serialization discipline.
type HeaderCodec interface {
	Encode(headers []HeaderField) ([]byte, error)
	DecodeFragment(fragment []byte) ([]HeaderField, error)
}

// hpackAdapter wraps hpack.Encoder/hpack.Decoder, following
// ranbochen-h2stream/session.go's hpackEncoder+headerWriteBuf pairing
// for the encode side and outervation-AiBuilt_llmahttap's
// accumulate-via-emit-callback pattern (internal/http2/hpack.go) for
// the decode side.
type hpackAdapter struct {
	encodeBuf *bytes.Buffer
	encoder   *hpack.Encoder

	decoder *hpack.Decoder
	pending []HeaderField
}

// NewHeaderCodec builds a HeaderCodec with its own dynamic tables,
// sized per the connection's current header table size.
func NewHeaderCodec(headerTableSize uint32) HeaderCodec {
	h := &hpackAdapter{
		encodeBuf: new(bytes.Buffer),
	}
	h.encoder = hpack.NewEncoder(h.encodeBuf)
	h.encoder.SetMaxDynamicTableSize(headerTableSize)
	h.decoder = hpack.NewDecoder(headerTableSize, h.emit)
	return h
}

func (h *hpackAdapter) emit(f hpack.HeaderField) {
	h.pending = append(h.pending, f)
}

func (h *hpackAdapter) Encode(headers []HeaderField) ([]byte, error) {
	h.encodeBuf.Reset()
	for _, f := range headers {
		if err := h.encoder.WriteField(f); err != nil {
			return nil, err
		}
	}
	out := make([]byte, h.encodeBuf.Len())
	copy(out, h.encodeBuf.Bytes())
	return out, nil
}

// DecodeFragment never calls decoder.Close: a HEADERS block split
// across CONTINUATION frames decodes as several calls against the
// same *hpack.Decoder, and Close would reject that split.
func (h *hpackAdapter) DecodeFragment(fragment []byte) ([]HeaderField, error) {
	h.pending = h.pending[:0]
	if _, err := h.decoder.Write(fragment); err != nil {
		return nil, err
	}
	out := make([]HeaderField, len(h.pending))
	copy(out, h.pending)
	return out, nil
}
