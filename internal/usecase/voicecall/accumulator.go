package voicecall

import (
	"sync"
	"time"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

// Accumulator collects the transcript fragments of one call in arrival order
type Accumulator struct {
	mu        sync.Mutex
	fragments entities.Transcript
	stopped   bool
	now       func() time.Time
}

// NewAccumulator creates an empty, recording accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{now: time.Now}
}

// Record appends a fragment. It reports false once the accumulator is stopped.
func (a *Accumulator) Record(text, producer string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false
	}
	a.fragments = append(a.fragments, entities.TranscriptFragment{
		Text:       text,
		Producer:   producer,
		ReceivedAt: a.now(),
	})
	return true
}

// Drain returns everything recorded since the previous drain and resets
func (a *Accumulator) Drain() entities.Transcript {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.fragments
	a.fragments = nil
	if out == nil {
		out = entities.Transcript{}
	}
	return out
}

// Stop makes every later Record a no-op
func (a *Accumulator) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
}
