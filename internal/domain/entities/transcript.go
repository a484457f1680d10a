package entities

import (
	"strings"
	"time"
)

// TranscriptFragment is one piece of text produced while a call is active
type TranscriptFragment struct {
	Text       string    `json:"text"`
	Producer   string    `json:"producer,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Transcript is the ordered sequence of fragments of a single call
type Transcript []TranscriptFragment

// Text joins the fragments with single spaces in arrival order
func (t Transcript) Text() string {
	parts := make([]string, len(t))
	for i, f := range t {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// Len returns the number of fragments
func (t Transcript) Len() int {
	return len(t)
}
