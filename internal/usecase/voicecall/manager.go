package voicecall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/voice-agent/pkg/config"
)

// StartResult is returned to the client so it can join the call room
type StartResult struct {
	CallID   uuid.UUID `json:"callId"`
	RoomName string    `json:"roomName"`
	URL      string    `json:"url"`
	Token    string    `json:"token"`
}

type session struct {
	callID       uuid.UUID
	userID       string
	roomName     string
	acc          *Accumulator
	orchestrator *Orchestrator
}

// roomMetadata is attached to every call room for the agent worker
type roomMetadata struct {
	AgentName   string `json:"agentName"`
	CompanyName string `json:"companyName"`
	UserID      string `json:"userId"`
	CallID      string `json:"callId"`
}

// Manager tracks active calls and routes fragments and leave requests to them
type Manager struct {
	livekit    livekit.Client
	transport  Transport
	summarizer Summarizer
	store      CallStore
	lkCfg      config.LiveKitConfig
	agentCfg   config.AgentConfig
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	rooms    map[string]uuid.UUID
}

// NewManager creates a call session manager
func NewManager(
	lk livekit.Client,
	summarizer Summarizer,
	store CallStore,
	cfg *config.Config,
	logger *zap.Logger,
) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		livekit:    lk,
		transport:  NewLiveKitTransport(lk),
		summarizer: summarizer,
		store:      store,
		lkCfg:      cfg.LiveKit,
		agentCfg:   cfg.Agent,
		logger:     logger,
		sessions:   make(map[uuid.UUID]*session),
		rooms:      make(map[string]uuid.UUID),
	}
}

// Start creates the call room and a join token for user
func (m *Manager) Start(ctx context.Context, user *entities.User) (*StartResult, error) {
	if user == nil || user.Identity() == "" {
		return nil, entities.ErrUnauthorized
	}

	callID := uuid.New()
	roomName := "call-" + callID.String()
	userID := user.Identity()

	metadata, err := json.Marshal(roomMetadata{
		AgentName:   m.agentCfg.Name,
		CompanyName: m.agentCfg.CompanyName,
		UserID:      userID,
		CallID:      callID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode room metadata: %w", err)
	}

	room, err := m.livekit.CreateRoom(ctx, roomName, livekit.CallRoomOptions(m.lkCfg, string(metadata)))
	if err != nil {
		return nil, err
	}

	token, err := m.livekit.GenerateToken(userID, room.Name, user.Name, &livekit.TokenOptions{
		ValidFor:       m.lkCfg.TokenTTL,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	})
	if err != nil {
		if delErr := m.livekit.DeleteRoom(context.WithoutCancel(ctx), room.Name); delErr != nil {
			m.logger.Warn("call.start.cleanup_failed", zap.String("room", room.Name), zap.Error(delErr))
		}
		return nil, err
	}

	acc := NewAccumulator()
	s := &session{
		callID:       callID,
		userID:       userID,
		roomName:     room.Name,
		acc:          acc,
		orchestrator: NewOrchestrator(callID, room.Name, acc, m.transport, m.summarizer, m.store, m.logger),
	}

	m.mu.Lock()
	m.sessions[callID] = s
	m.rooms[room.Name] = callID
	m.mu.Unlock()

	m.logger.Info("call.started",
		zap.String("call_id", callID.String()),
		zap.String("user_id", userID),
		zap.String("room", room.Name),
	)

	return &StartResult{
		CallID:   callID,
		RoomName: room.Name,
		URL:      m.livekit.URL(),
		Token:    token,
	}, nil
}

// Owner returns the user owning an active call
func (m *Manager) Owner(callID uuid.UUID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[callID]
	if !ok {
		return "", false
	}
	return s.userID, true
}

// ActiveCalls returns the number of calls not yet finished
func (m *Manager) ActiveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(callID uuid.UUID, userID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[callID]
	m.mu.RUnlock()

	if !ok {
		return nil, entities.ErrCallNotFound
	}
	if s.userID != userID {
		return nil, entities.ErrCallAccessDenied
	}
	return s, nil
}

// Record appends a transcript fragment to an active call
func (m *Manager) Record(_ context.Context, callID uuid.UUID, userID, text, producer string) error {
	s, err := m.lookup(callID, userID)
	if err != nil {
		return err
	}
	if s.orchestrator.State() != entities.CallStateActive || !s.acc.Record(text, producer) {
		return entities.ErrCallNotActive
	}
	return nil
}

// Leave runs the end-of-call pipeline for a call the user owns
func (m *Manager) Leave(ctx context.Context, callID uuid.UUID, userID string) (*Outcome, error) {
	s, err := m.lookup(callID, userID)
	if err != nil {
		return nil, err
	}
	return m.finish(ctx, s)
}

// RoomFinished ends a call whose room was closed before the user left.
// Unknown rooms and calls already leaving are ignored.
func (m *Manager) RoomFinished(ctx context.Context, roomName string) (*Outcome, error) {
	m.mu.RLock()
	callID, ok := m.rooms[roomName]
	var s *session
	if ok {
		s = m.sessions[callID]
	}
	m.mu.RUnlock()

	if s == nil {
		return nil, nil
	}

	outcome, err := m.finish(ctx, s)
	if errors.Is(err, entities.ErrCallFinished) {
		return nil, nil
	}
	return outcome, err
}

func (m *Manager) finish(ctx context.Context, s *session) (*Outcome, error) {
	outcome, err := s.orchestrator.Leave(ctx, s.userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	delete(m.sessions, s.callID)
	delete(m.rooms, s.roomName)
	m.mu.Unlock()

	return outcome, nil
}

// Shutdown ends every active call, giving each pipeline until ctx expires
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	pending := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		pending = append(pending, s)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, s := range pending {
		wg.Add(1)
		go func(s *session) {
			defer wg.Done()
			if _, err := m.finish(ctx, s); err != nil && !errors.Is(err, entities.ErrCallFinished) {
				m.logger.Warn("call.shutdown.failed", zap.String("call_id", s.callID.String()), zap.Error(err))
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("call.shutdown.timeout", zap.Int("pending", len(pending)))
	}
}
