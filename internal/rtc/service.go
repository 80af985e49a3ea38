package rtc

import (
	"io"

	"github.com/pion/webrtc/v4"
)

type videoStreamer interface {
	start()
	close()
}

// ScreenConnection represents one negotiated media session with a remote
// viewer: the peer connection plus the screen track feeding it.
type ScreenConnection interface {
	io.Closer
	// ProcessOffer applies the viewer's SDP offer and returns the local
	// answer SDP. Further candidates trickle through AddCandidate and the
	// OnCandidate handler.
	ProcessOffer(offer string) (string, error)
	AddCandidate(candidate webrtc.ICECandidateInit) error
}

// Handlers are the transport-to-session notifications. OnCandidate fires
// for every locally gathered ICE candidate; OnTerminal fires once the
// connection reaches a terminal connectivity state (failed, closed or
// disconnected).
type Handlers struct {
	OnCandidate func(webrtc.ICECandidateInit)
	OnTerminal  func()
}

// Service creates screen connections, one per viewer.
type Service interface {
	CreateScreenConnection(handlers Handlers) (ScreenConnection, error)
}
