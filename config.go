package clientstream

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// PeerSettings is the read-only snapshot of the peer's current
// SETTINGS a stream consults when chunking an outbound payload. It is
// owned and updated by the connection; the stream only ever reads it
// (spec §5, "Peer settings are read-only snapshots from the stream's
// perspective").
type PeerSettings struct {
	MaxFrameSize      uint32
	HeaderTableSize   uint32
	InitialWindowSize uint32
}

// SettingsSource hands a stream the peer settings in effect right
// now. A function type rather than an interface: the connection can
// satisfy it with a closure over a mutex-guarded field without
// exposing any of its other state, matching the "settings.fetch"
// collaborator operation of spec §6.
type SettingsSource func() PeerSettings

// StreamConfig gathers the tunables a connection would hand down to
// every stream it creates, analogous to ranbochen-h2stream's
// SessionConfig/DefaultSessionConfig.
type StreamConfig struct {
	MaxFrameSize      uint32 `toml:"max_frame_size"`
	HeaderTableSize   uint32 `toml:"header_table_size"`
	InitialWindowSize uint32 `toml:"initial_window_size"`
	Scheme            string `toml:"scheme"`
}

// DefaultStreamConfig is the configuration new streams use absent an
// explicit override. Do not modify at run time.
var DefaultStreamConfig = StreamConfig{
	MaxFrameSize:      DefaultMaxFrameSize,
	HeaderTableSize:   DefaultHeaderTableSize,
	InitialWindowSize: DefaultInitialWindowSize,
	Scheme:            "https",
}

// PeerSettings projects a StreamConfig down to the narrower snapshot
// the stream actor actually reads.
func (c StreamConfig) PeerSettings() PeerSettings {
	return PeerSettings{
		MaxFrameSize:      c.MaxFrameSize,
		HeaderTableSize:   c.HeaderTableSize,
		InitialWindowSize: c.InitialWindowSize,
	}
}

// LoadStreamConfig reads a TOML file and overlays it on
// DefaultStreamConfig, following outervation-AiBuilt_llmahttap's use
// of github.com/BurntSushi/toml for config loading. Keys absent from
// the file keep their default; a key present in the file replaces the
// default, even when its value is zero.
func LoadStreamConfig(path string) (StreamConfig, error) {
	cfg := DefaultStreamConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return StreamConfig{}, fmt.Errorf("clientstream: load config %q: %w", path, err)
	}
	return cfg, nil
}
