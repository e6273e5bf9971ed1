package clientstream

import "log"

// VerboseLogs enables per-frame debug logging, in the same spirit as
// ranbochen-h2stream/session_log.go's package-level switch.
var VerboseLogs = false

func (st *Stream) vlogf(format string, args ...interface{}) {
	if VerboseLogs {
		st.logf(format, args...)
	}
}

func (st *Stream) logf(format string, args ...interface{}) {
	log.Printf("clientstream: stream %d: "+format, append([]interface{}{st.id}, args...)...)
}
