package stage

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/authcache"
	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// AuthCallback decides whether a peer's AuthMessage payload is valid. It
// receives the event's scratch pile read-only, so it may inspect whatever
// earlier stages (AutoParse, PeerMap) have already deposited.
type AuthCallback func(ctx context.Context, t peer.TransportID, message []byte, scratch *scratch.Pile) bool

// AuthenticationConfig mirrors the reference layer's tunables.
type AuthenticationConfig struct {
	Callback AuthCallback
	Cache    *authcache.Cache

	// Protected blocks every packet other than an AuthMessage from a peer
	// whose authentication is cached as failed, by silently consuming
	// it rather than letting it continue down the chain. A peer with no
	// cached result is not blocked.
	Protected bool

	// AutoSendAuth sends a blank ([0x00]) AuthMessage after the Callback
	// accepts a peer, ahead of the AuthComplete. If false, only the
	// AuthComplete is sent.
	AutoSendAuth bool
}

// Authentication processes Sys/Auth frames, caches the resulting
// authenticated/unauthenticated state per transport peer, and (when
// Protected) blocks every other packet from a peer whose authentication
// is cached as failed. Every Sys/Auth/AuthMessage event it handles is consumed
// unconditionally, whether authentication succeeded or failed: the caller
// never sees the raw auth handshake traffic. Always re-inserts the
// auth-cache handle into the scratch before returning. Grounded on
// layers/authentication.rs.
func Authentication(cfg AuthenticationConfig) pipeline.Stage {
	return pipeline.WithData("authentication", cfg, func(ctx context.Context, e *pipeline.Event, cfg AuthenticationConfig) (*pipeline.Event, error) {
		scratch.Insert(e.Scratch, cfg.Cache)

		if e.Kind == pipeline.Disconnect {
			cfg.Cache.Remove(e.Transport)
			return e, nil
		}
		if e.Kind != pipeline.Receive {
			return e, nil
		}

		f, ok := scratch.Get[*frame.Frame](e.Scratch)
		if !ok {
			return nil, errMissingAutoParse("authentication")
		}

		if f.Tag != frame.TagSys || f.Sys.Sub != frame.SysAuth || f.Sys.IsAuthComplete {
			return blockIfUnauthenticated(cfg, e)
		}

		authenticated := cfg.Callback(ctx, e.Transport, f.Sys.AuthMessage, e.Scratch)
		cfg.Cache.Set(e.Transport, authenticated)

		if authenticated {
			if cfg.AutoSendAuth {
				if err := sendAuthMessage(e); err != nil {
					return nil, err
				}
			}
			if err := sendAuthComplete(e); err != nil {
				return nil, err
			}
		}

		log.Debug("authentication: transport=%v result=%v", e.Transport, authenticated)
		return nil, nil
	})
}

func blockIfUnauthenticated(cfg AuthenticationConfig, e *pipeline.Event) (*pipeline.Event, error) {
	if !cfg.Protected {
		return e, nil
	}
	authenticated, known := cfg.Cache.Get(e.Transport)
	if known && !authenticated {
		return nil, nil
	}
	return e, nil
}

func sendAuthMessage(e *pipeline.Event) error {
	f := &frame.Frame{Tag: frame.TagSys, Sys: &frame.Sys{Sub: frame.SysAuth, AuthMessage: []byte{0x00}}}
	payload, err := f.Encode()
	if err != nil {
		return err
	}
	outbound.Send(e.Outbound, outbound.Packet{Transport: e.Transport, Channel: 0, Reliable: true, Payload: payload})
	return nil
}

func sendAuthComplete(e *pipeline.Event) error {
	f := &frame.Frame{Tag: frame.TagSys, Sys: &frame.Sys{Sub: frame.SysAuth, IsAuthComplete: true}}
	payload, err := f.Encode()
	if err != nil {
		return err
	}
	outbound.Send(e.Outbound, outbound.Packet{Transport: e.Transport, Channel: 0, Reliable: true, Payload: payload})
	return nil
}
