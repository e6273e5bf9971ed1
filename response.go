package clientstream

import "strconv"

// Response is the artifact a stream publishes to its owner's
// completion sink on terminal transition, per spec §3/§4.3.
type Response struct {
	ID        uint32
	Headers   []HeaderField
	Body      []byte
	Status    int
	HasStatus bool
	Peername  string

	// PushedRequest is set only for a push_promise message: the
	// promised request's pseudo-headers, extracted from Headers as a
	// read-only convenience view. Zero value otherwise.
	PushedRequest PushedRequest
}

// PushedRequest is the promised request line of a server push, per
// scenario 4 in spec §8.
type PushedRequest struct {
	Method    string
	Path      string
	Authority string
	Scheme    string
}

// newResponse assembles a Response from the stream's accumulated
// state, verbatim and order-preserving per spec §4.3.
func newResponse(id uint32, headers []HeaderField, body []byte, peername string) Response {
	r := Response{
		ID:       id,
		Headers:  headers,
		Body:     body,
		Peername: peername,
	}
	if v, ok := GetHeader(headers, ":status"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			r.Status = n
			r.HasStatus = true
		}
	}
	return r
}

// newPushedResponse is newResponse plus the promised request's
// pseudo-headers, for a push_promise message (spec §4.3/§8 scenario 4).
func newPushedResponse(id uint32, headers []HeaderField) Response {
	r := newResponse(id, headers, nil, "")
	method, _ := GetHeader(headers, ":method")
	path, _ := GetHeader(headers, ":path")
	authority, _ := GetHeader(headers, ":authority")
	scheme, _ := GetHeader(headers, ":scheme")
	r.PushedRequest = PushedRequest{Method: method, Path: path, Authority: authority, Scheme: scheme}
	return r
}

// GetHeader performs the spec's "get_header" linear scan: the first
// pair with a matching, case-sensitive name, or (\"\", false). HTTP/2
// mandates lowercase header names on the wire, so case-sensitive
// comparison is correct here, not an oversight.
func GetHeader(headers []HeaderField, name string) (string, bool) {
	for _, h := range headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}
