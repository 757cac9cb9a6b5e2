package server

import (
	"github.com/sandia-minimega/godotrelay/internal/pipeline"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// Compressor is an optional compression hook. A custom Compressor is
// accepted but warned on, and is only recorded on Config: the service
// loop does not apply it to inbound or outbound payloads.
type Compressor interface {
	Compress([]byte) []byte
	Decompress([]byte) ([]byte, error)
}

// Checksum is an optional method-name-set fingerprint hook. Like
// Compressor it is accepted but warned on, and is only recorded on
// Config: FunctionSet.Register always uses wire.MethodSetChecksum's MD5.
type Checksum interface {
	Sum(names []string) string
}

// Config holds every Builder-configurable knob, defaulted the way
// ron.NewServer/meshage.NewNode default theirs: a loopback bind address
// and small, conservative limits.
type Config struct {
	BindHost string
	BindPort int

	// PeerLimit and ChannelLimit are enforced by the Transport
	// implementation, not this package; they are carried here purely so
	// a Transport constructor can read them off a single Config value.
	PeerLimit    int
	ChannelLimit int

	Compressor Compressor
	Checksum   Checksum

	// OutboundBuffer sizes the channel stages use to queue outbound
	// packets before the service loop drains them to the transport.
	OutboundBuffer int
	// ErrorRingSize bounds how many pipeline errors RecentErrors retains.
	ErrorRingSize int
}

// DefaultConfig returns the Builder's starting point.
func DefaultConfig() Config {
	return Config{
		BindHost:       "127.0.0.1",
		BindPort:       55556,
		PeerLimit:      32,
		ChannelLimit:   2,
		OutboundBuffer: 256,
		ErrorRingSize:  64,
	}
}

// Builder assembles a Config plus an ordered stage chain, mirroring the
// constructor-with-options style of ron.NewServer and meshage.NewNode.
type Builder struct {
	cfg    Config
	stages []pipeline.Stage
}

// NewBuilder returns a Builder seeded with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Bind sets the listen host and port. Binding the socket itself is the
// Transport's job; this is recorded only so a Transport constructor can
// read it back off Config.
func (b *Builder) Bind(host string, port int) *Builder {
	b.cfg.BindHost = host
	b.cfg.BindPort = port
	return b
}

// PeerLimit sets the maximum number of simultaneously connected peers.
func (b *Builder) PeerLimit(n int) *Builder {
	b.cfg.PeerLimit = n
	return b
}

// ChannelLimit sets the maximum number of ENet channels a peer may use.
func (b *Builder) ChannelLimit(n int) *Builder {
	b.cfg.ChannelLimit = n
	return b
}

// WithCompressor installs a custom Compressor, logging a warning since
// this is a deviation from the reference wire format.
func (b *Builder) WithCompressor(c Compressor) *Builder {
	log.Warn("server: custom compressor installed, deviating from the uncompressed reference wire format")
	b.cfg.Compressor = c
	return b
}

// WithChecksum installs a custom Checksum, logging a warning for the same
// reason as WithCompressor.
func (b *Builder) WithChecksum(c Checksum) *Builder {
	log.Warn("server: custom method-set checksum installed, deviating from the reference MD5 scheme")
	b.cfg.Checksum = c
	return b
}

// Use appends a stage to the pipeline, in the order stages should run.
func (b *Builder) Use(s pipeline.Stage) *Builder {
	b.stages = append(b.stages, s)
	return b
}

// Build finalizes the stage chain against t and returns a ready Server.
func (b *Builder) Build(t Transport) *Server {
	return newServer(b.cfg, pipeline.New(b.stages...), t)
}
