package session

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

// Signaling message types. Clients send auth, offer, candidate, control and
// bye; the agent replies with auth acks, answer, candidate and error.
const (
	TypeAuth      = "auth"
	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"
	TypeControl   = "control"
	TypeBye       = "bye"
	TypeError     = "error"
)

// Message is the JSON envelope exchanged over the signaling channel. One
// flat struct covers every message type; unused fields are omitted on the
// wire.
type Message struct {
	Type string `json:"type"`

	// auth
	Token  string `json:"token,omitempty"`
	OK     *bool  `json:"ok,omitempty"`
	Reason string `json:"reason,omitempty"`

	// offer / answer
	SDP string `json:"sdp,omitempty"`

	// candidate relay; pion's ICECandidateInit marshals to the
	// {candidate, sdpMid, sdpMLineIndex} object browsers produce.
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`

	// control
	Action  string          `json:"action,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`

	// error
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

func authAck(ok bool, reason string) Message {
	return Message{Type: TypeAuth, OK: &ok, Reason: reason}
}

func answerMessage(sdp string) Message {
	return Message{Type: TypeAnswer, SDP: sdp}
}

func candidateMessage(candidate webrtc.ICECandidateInit) Message {
	return Message{Type: TypeCandidate, Candidate: &candidate}
}

func errorMessage(message, details string) Message {
	return Message{Type: TypeError, Message: message, Details: details}
}
