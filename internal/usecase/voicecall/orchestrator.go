package voicecall

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
	"github.com/johnquangdev/voice-agent/pkg/jobcontext"
)

// PersistWarning is reported to the caller when the summary could not be saved
const PersistWarning = "Call summary could not be saved"

// Transport tears down the real-time session of a call
type Transport interface {
	Teardown(ctx context.Context, roomName string) error
}

// Summarizer produces a non-empty summary for a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript entities.Transcript) summary.Result
}

// CallStore persists the finished call
type CallStore interface {
	Create(ctx context.Context, userID, summary string, metadata *entities.CallMetadata) (*entities.Call, error)
}

// Outcome is what a finished leave reports back to the user
type Outcome struct {
	CallID  uuid.UUID          `json:"callId"`
	State   entities.CallState `json:"state"`
	Summary string             `json:"summary"`
	Source  summary.Source     `json:"summarySource"`
	Call    *entities.Call     `json:"call,omitempty"`
	Warning string             `json:"warning,omitempty"`
}

// Orchestrator runs disconnect, summarize and persist for one call, once
type Orchestrator struct {
	callID    uuid.UUID
	roomName  string
	startedAt time.Time

	acc        *Accumulator
	transport  Transport
	summarizer Summarizer
	store      CallStore
	logger     *zap.Logger

	mu    sync.Mutex
	state entities.CallState
}

// NewOrchestrator creates an Active orchestrator owning acc
func NewOrchestrator(
	callID uuid.UUID,
	roomName string,
	acc *Accumulator,
	transport Transport,
	summarizer Summarizer,
	store CallStore,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		callID:     callID,
		roomName:   roomName,
		startedAt:  time.Now(),
		acc:        acc,
		transport:  transport,
		summarizer: summarizer,
		store:      store,
		logger:     logger.With(zap.String("call_id", callID.String()), zap.String("room", roomName)),
		state:      entities.CallStateActive,
	}
}

// State returns the current lifecycle state
func (o *Orchestrator) State() entities.CallState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s entities.CallState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.logger.Debug("call.state", zap.String("state", string(s)))
}

// Leave ends the call on behalf of userID. Only the first call does any work;
// later calls return entities.ErrCallFinished. Persist failures are reported
// in Outcome.Warning, never as an error.
func (o *Orchestrator) Leave(ctx context.Context, userID string) (*Outcome, error) {
	o.mu.Lock()
	if o.state != entities.CallStateActive {
		o.mu.Unlock()
		return nil, entities.ErrCallFinished
	}
	o.state = entities.CallStateDisconnecting
	o.mu.Unlock()

	ctx = jobcontext.JobBegin(ctx, o.callID, userID)
	o.logger.Info("call.leave.started", zap.String("user_id", userID))

	if err := jobcontext.RunStage(ctx, "disconnect", func(ctx context.Context) error {
		return o.transport.Teardown(ctx, o.roomName)
	}); err != nil {
		o.logger.Warn("call.leave.teardown_failed",
			zap.Bool("transient", jobcontext.IsTransientError(err)),
			zap.Error(err),
		)
	}
	o.acc.Stop()

	o.setState(entities.CallStateSummarizing)
	transcript := o.acc.Drain()
	result := o.summarizer.Summarize(ctx, transcript)

	o.setState(entities.CallStatePersisting)
	outcome := &Outcome{
		CallID:  o.callID,
		Summary: result.Summary,
		Source:  result.Source,
	}
	metadata := &entities.CallMetadata{
		RoomName:        o.roomName,
		FragmentCount:   transcript.Len(),
		SummarySource:   string(result.Source),
		DurationSeconds: int64(time.Since(o.startedAt).Seconds()),
	}

	err := jobcontext.RunStage(ctx, "persist", func(ctx context.Context) error {
		call, err := o.store.Create(ctx, userID, result.Summary, metadata)
		if err != nil {
			return err
		}
		outcome.Call = call
		return nil
	})
	if err != nil {
		o.logger.Error("call.leave.persist_failed",
			zap.String("user_id", userID),
			zap.Bool("transient", jobcontext.IsTransientError(err)),
			zap.Error(err),
		)
		outcome.Warning = PersistWarning
	}

	o.setState(entities.CallStateDone)
	outcome.State = entities.CallStateDone

	o.logger.Info("call.leave.done",
		zap.String("summary_source", string(result.Source)),
		zap.Int("fragments", transcript.Len()),
		zap.Duration("elapsed", jobcontext.Elapsed(ctx)),
		zap.Bool("persisted", outcome.Call != nil),
	)
	return outcome, nil
}
