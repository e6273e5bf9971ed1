package clientstream

import "sort"

// handleSendHeaders implements spec §4.2's send_headers contract. It
// only runs from StateIdle (the table's only send_headers row); any
// other state is a protocol-state error since an actor only ever
// receives one send_headers command for its lifetime.
func (st *Stream) handleSendHeaders(headers []HeaderField, payload []byte) error {
	if st.state != StateIdle {
		return &ProtocolStateError{StreamID: st.id, State: st.state, Event: "send_headers"}
	}

	augmented := augmentPseudoHeaders(headers, st.conn.Scheme(), st.conn.Authority())

	block, err := st.conn.Codec().Encode(augmented)
	if err != nil {
		return &HpackError{StreamID: st.id, Err: err}
	}

	// END_STREAM iff payload is empty, per spec §4.1's send_headers row.
	endStreamOnHeaders := len(payload) == 0
	if err := st.conn.Frames().WriteHeaders(st.id, endStreamOnHeaders, block); err != nil {
		return &TransportError{StreamID: st.id, Err: err}
	}

	if len(payload) > 0 {
		if err := st.writeChunkedPayload(payload); err != nil {
			return err
		}
	}
	// The table's To-state column is "open" unconditionally, even for a
	// bodyless request that just set END_STREAM on HEADERS — spec §9
	// open question 1 flags this as a likely source bug but preserves
	// it rather than silently fixing it.
	st.setState(StateOpen)
	return nil
}

// augmentPseudoHeaders adds :scheme and :authority, then stable-sorts
// by name ascending so every pseudo-header (name starting with ':',
// 0x3A) sorts before every regular header, per spec §4.2 step 1.
func augmentPseudoHeaders(headers []HeaderField, scheme, authority string) []HeaderField {
	out := make([]HeaderField, 0, len(headers)+2)
	out = append(out, HeaderField{Name: ":scheme", Value: scheme})
	out = append(out, HeaderField{Name: ":authority", Value: authority})
	out = append(out, headers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// writeChunkedPayload splits payload into chunks of exactly
// max_frame_size bytes with a final remainder chunk, per spec §4.2
// step 4 / §4.2 "Chunking algorithm". Only the last chunk carries
// END_STREAM.
func (st *Stream) writeChunkedPayload(payload []byte) error {
	maxFrameSize := int(st.conn.Settings().MaxFrameSize)
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}

	for offset := 0; offset < len(payload); offset += maxFrameSize {
		end := offset + maxFrameSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]
		last := end == len(payload)
		if err := st.conn.Frames().WriteData(st.id, last, chunk); err != nil {
			return &TransportError{StreamID: st.id, Err: err}
		}
	}
	return nil
}
