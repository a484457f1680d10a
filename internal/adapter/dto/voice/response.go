package voice

import (
	callDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/call"
)

// StartSessionResponse tells the client how to join the call room
type StartSessionResponse struct {
	CallID   string `json:"callId"`
	RoomName string `json:"roomName"`
	URL      string `json:"url"`
	Token    string `json:"token"`
}

// LeaveResponse reports the end-of-call outcome
type LeaveResponse struct {
	CallID        string                `json:"callId"`
	State         string                `json:"state"`
	Summary       string                `json:"summary"`
	SummarySource string                `json:"summarySource"`
	Call          *callDTO.CallResponse `json:"call,omitempty"`
	Warning       string                `json:"warning,omitempty"`
}
