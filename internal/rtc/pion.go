package rtc

import (
	"fmt"
	"image"
	"log"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/Tk21111/ws-Chrome-leaf/internal/broadcast"
	"github.com/Tk21111/ws-Chrome-leaf/internal/encoders"
)

// PionService is our implementation of the rtc.Service
type PionService struct {
	stunServer string
	frames     *broadcast.FrameBuffer
	encService encoders.Service
	size       image.Point
	fps        int
}

// NewPionService creates a service that builds peer connections streaming
// the shared frame buffer as an H264 track.
func NewPionService(stun string, frames *broadcast.FrameBuffer, enc encoders.Service, size image.Point, fps int) Service {
	return &PionService{
		stunServer: stun,
		frames:     frames,
		encService: enc,
		size:       size,
		fps:        fps,
	}
}

// PionConnection is a webrtc.PeerConnection wrapper that implements the
// ScreenConnection interface
type PionConnection struct {
	pc       *webrtc.PeerConnection
	streamer videoStreamer
}

// CreateScreenConnection creates and configures a new peer connection with
// one sendonly video track fed from the shared frame buffer.
func (svc *PionService) CreateScreenConnection(handlers Handlers) (ScreenConnection, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{svc.stunServer}},
		},
	})
	if err != nil {
		return nil, err
	}

	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264},
		uuid.New().String(),
		"remote-screen",
	)
	if err != nil {
		pc.Close()
		return nil, err
	}

	transceiver, err := pc.AddTransceiverFromTrack(track, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionSendonly,
	})
	if err != nil {
		pc.Close()
		return nil, err
	}

	// Read and discard RTCP packets so the interceptors keep running.
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := transceiver.Sender().Read(buf); err != nil {
				return
			}
		}
	}()

	encoder, err := svc.encService.NewEncoder(encoders.H264Codec, svc.size, svc.fps)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("can't create encoder: %w", err)
	}

	streamer := newStreamer(track, svc.frames, encoder, svc.fps)

	pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate != nil && handlers.OnCandidate != nil {
			handlers.OnCandidate(candidate.ToJSON())
		}
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Printf("Connection state: %s", state.String())
		switch state {
		case webrtc.PeerConnectionStateConnected:
			streamer.start()
		case webrtc.PeerConnectionStateFailed,
			webrtc.PeerConnectionStateClosed,
			webrtc.PeerConnectionStateDisconnected:
			if handlers.OnTerminal != nil {
				handlers.OnTerminal()
			}
		}
	})

	return &PionConnection{
		pc:       pc,
		streamer: streamer,
	}, nil
}

// ProcessOffer handles the SDP offer coming from the viewer and returns the
// SDP answer that must be passed back to establish the connection.
func (p *PionConnection) ProcessOffer(offer string) (string, error) {
	err := p.pc.SetRemoteDescription(webrtc.SessionDescription{
		SDP:  offer,
		Type: webrtc.SDPTypeOffer,
	})
	if err != nil {
		return "", err
	}

	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	return answer.SDP, nil
}

// AddCandidate relays a remote ICE candidate to the peer connection.
func (p *PionConnection) AddCandidate(candidate webrtc.ICECandidateInit) error {
	return p.pc.AddICECandidate(candidate)
}

// Close stops the video streamer and closes the peer connection.
func (p *PionConnection) Close() error {
	p.streamer.close()
	return p.pc.Close()
}
