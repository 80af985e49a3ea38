// Package session drives the per-viewer signaling state machine:
// authentication, offer/answer exchange, ICE relay, control dispatch and
// teardown, all over a single bidirectional message channel.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/Tk21111/ws-Chrome-leaf/internal/input"
	"github.com/Tk21111/ws-Chrome-leaf/internal/rtc"
)

// State is the lifecycle position of a session. Transitions are driven
// strictly by inbound messages and transport events; nothing polls.
type State int

const (
	StateConnected State = iota
	StateAuthenticating
	StateAuthenticated
	StateNegotiating
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateNegotiating:
		return "negotiating"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Signal is the outbound half of the signaling channel plus its closer.
// *websocket.Conn satisfies it; tests use a recording fake.
type Signal interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session owns one viewer's signaling lifecycle. Inbound messages must be
// delivered sequentially (one Handle call at a time); Close may race with
// Handle from the transport's terminal callback or process shutdown.
type Session struct {
	id       string
	signal   Signal
	registry *Registry
	peers    rtc.Service
	control  *input.Dispatcher
	token    string

	mu    sync.Mutex
	state State
	conn  rtc.ScreenConnection

	// writeMu serializes writes to the signaling channel; candidates are
	// sent from transport goroutines while Handle may be replying.
	writeMu sync.Mutex
}

// New registers a fresh session for one signaling connection.
func New(signal Signal, registry *Registry, peers rtc.Service, control *input.Dispatcher, token string) *Session {
	s := &Session{
		id:       uuid.New().String(),
		signal:   signal,
		registry: registry,
		peers:    peers,
		control:  control,
		token:    token,
		state:    StateConnected,
	}
	registry.Add(s)
	return s
}

// ID returns the generated peer id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleRaw decodes one inbound signaling message and advances the state
// machine. A non-nil error is terminal for the session: the caller must
// invoke Close and stop reading.
func (s *Session) HandleRaw(data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.send(errorMessage("malformed message", err.Error()))
		return fmt.Errorf("malformed message: %w", err)
	}
	return s.Handle(msg)
}

// Handle advances the state machine with one decoded message.
func (s *Session) Handle(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return fmt.Errorf("session closed")
	case StateConnected:
		s.state = StateAuthenticating
		return s.handleAuth(msg)
	}

	switch msg.Type {
	case TypeAuth:
		s.send(errorMessage("already authenticated", ""))
		return nil
	case TypeOffer:
		return s.handleOffer(msg)
	case TypeCandidate:
		s.handleCandidate(msg)
		return nil
	case TypeControl:
		s.handleControl(msg)
		return nil
	case TypeBye:
		return fmt.Errorf("peer sent bye")
	default:
		s.send(errorMessage(fmt.Sprintf("unknown message type %q", msg.Type), ""))
		return nil
	}
}

// handleAuth consumes the mandatory first message. Any message other than
// an auth carrying the shared token is a failed authentication and tears
// the session down.
func (s *Session) handleAuth(msg Message) error {
	if msg.Type != TypeAuth || msg.Token != s.token {
		s.send(authAck(false, "invalid token"))
		return fmt.Errorf("authentication failed")
	}
	s.state = StateAuthenticated
	s.send(authAck(true, ""))
	log.Printf("Session %s authenticated", s.id)
	return nil
}

// handleOffer performs the one-shot negotiation. Exactly one offer per
// session is accepted; renegotiation is rejected without touching the
// existing peer connection.
func (s *Session) handleOffer(msg Message) error {
	if s.state != StateAuthenticated {
		s.send(errorMessage("renegotiation not supported", ""))
		return nil
	}
	if msg.SDP == "" {
		s.send(errorMessage("missing sdp", ""))
		return nil
	}

	s.state = StateNegotiating
	conn, err := s.peers.CreateScreenConnection(rtc.Handlers{
		OnCandidate: s.sendCandidate,
		OnTerminal:  func() { s.Close() },
	})
	if err != nil {
		s.send(errorMessage("negotiation failed", err.Error()))
		return fmt.Errorf("create peer connection: %w", err)
	}

	answer, err := conn.ProcessOffer(msg.SDP)
	if err != nil {
		conn.Close()
		s.send(errorMessage("negotiation failed", err.Error()))
		return fmt.Errorf("process offer: %w", err)
	}

	s.conn = conn
	s.state = StateActive
	s.send(answerMessage(answer))
	log.Printf("Session %s active", s.id)
	return nil
}

// handleCandidate relays a remote ICE candidate to the transport. A
// candidate arriving before any offer has no peer connection to go to and
// is dropped, matching the trickle model where such messages are stale.
func (s *Session) handleCandidate(msg Message) {
	if s.conn == nil || msg.Candidate == nil {
		log.Printf("Session %s: dropping candidate without peer connection", s.id)
		return
	}
	if err := s.conn.AddCandidate(*msg.Candidate); err != nil {
		log.Printf("Session %s: adding candidate failed: %v", s.id, err)
	}
}

// handleControl validates a control message and hands it to the dispatcher
// without waiting for the injection to run.
func (s *Session) handleControl(msg Message) {
	ev, err := input.ParseEvent(msg.Action, msg.Payload)
	if err != nil {
		s.send(errorMessage("bad control message", err.Error()))
		return
	}
	s.control.Dispatch(ev)
}

// sendCandidate forwards a locally gathered ICE candidate to the viewer.
func (s *Session) sendCandidate(candidate webrtc.ICECandidateInit) {
	s.send(candidateMessage(candidate))
}

func (s *Session) send(msg Message) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.signal.WriteJSON(msg); err != nil {
		log.Printf("Session %s: signal write failed: %v", s.id, err)
	}
}

// Close tears the session down: release the peer connection, deregister,
// close the signaling channel. Idempotent, and safe to call from the read
// loop, the transport callback or process shutdown.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Printf("Session %s: closing peer connection: %v", s.id, err)
		}
	}
	s.registry.Remove(s.id)
	s.signal.Close()
	log.Printf("Session %s closed", s.id)
}
