package voicecall

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/voice-agent/internal/usecase/call"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
	"github.com/johnquangdev/voice-agent/pkg/config"
)

func newTestManager(t *testing.T) (*Manager, *memoryRepo) {
	t.Helper()
	cfg := &config.Config{
		LiveKit: config.LiveKitConfig{
			URL:          "ws://localhost:7880",
			APIKey:       "devkey",
			APISecret:    "devsecret-devsecret-devsecret-00",
			UseMock:      true,
			EmptyTimeout: 300,
		},
		Agent: config.AgentConfig{Name: "voice-agent", CompanyName: "Waldo The Wellness Warrior"},
	}
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "Discussed stress.", Source: summary.SourceModel}}
	m := NewManager(livekit.NewClient(cfg.LiveKit), sum, call.NewService(repo), cfg, zap.NewNop())
	return m, repo
}

func testUser() *entities.User {
	return &entities.User{ID: uuid.New(), Email: "a@example.com", Name: "Alice", IsActive: true}
}

func TestManager_StartRecordLeave(t *testing.T) {
	m, repo := newTestManager(t)
	user := testUser()
	ctx := context.Background()

	started, err := m.Start(ctx, user)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if started.Token == "" || started.RoomName != "call-"+started.CallID.String() || started.URL == "" {
		t.Fatalf("unexpected start result %+v", started)
	}
	if owner, ok := m.Owner(started.CallID); !ok || owner != user.Identity() {
		t.Fatalf("owner not tracked")
	}

	if err := m.Record(ctx, started.CallID, user.Identity(), "Hello there.", "agent"); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	out, err := m.Leave(ctx, started.CallID, user.Identity())
	if err != nil {
		t.Fatalf("Leave error: %v", err)
	}
	if out.Call == nil || out.Call.UserID != user.Identity() {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if m.ActiveCalls() != 0 {
		t.Fatalf("finished call must be forgotten")
	}
	if len(repo.calls) != 1 {
		t.Fatalf("expected one stored call, got %d", len(repo.calls))
	}

	if err := m.Record(ctx, started.CallID, user.Identity(), "late", ""); !errors.Is(err, entities.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound after leave, got %v", err)
	}
}

func TestManager_OtherUsersCall(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	started, err := m.Start(ctx, testUser())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	intruder := uuid.NewString()
	if err := m.Record(ctx, started.CallID, intruder, "x", ""); !errors.Is(err, entities.ErrCallAccessDenied) {
		t.Fatalf("expected ErrCallAccessDenied, got %v", err)
	}
	if _, err := m.Leave(ctx, started.CallID, intruder); !errors.Is(err, entities.ErrCallAccessDenied) {
		t.Fatalf("expected ErrCallAccessDenied, got %v", err)
	}
	if _, err := m.Leave(ctx, uuid.New(), intruder); !errors.Is(err, entities.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound, got %v", err)
	}
}

func TestManager_RoomFinishedRunsPipelineOnce(t *testing.T) {
	m, repo := newTestManager(t)
	user := testUser()
	ctx := context.Background()

	started, err := m.Start(ctx, user)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	out, err := m.RoomFinished(ctx, started.RoomName)
	if err != nil || out == nil || out.Call == nil {
		t.Fatalf("RoomFinished should persist the call: %+v, %v", out, err)
	}

	out, err = m.RoomFinished(ctx, started.RoomName)
	if err != nil || out != nil {
		t.Fatalf("second RoomFinished must be a no-op: %+v, %v", out, err)
	}
	if _, err := m.Leave(ctx, started.CallID, user.Identity()); !errors.Is(err, entities.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound after webhook finish, got %v", err)
	}
	if len(repo.calls) != 1 {
		t.Fatalf("expected one stored call, got %d", len(repo.calls))
	}
}

func TestManager_StartRequiresUser(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Start(context.Background(), nil); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestManager_Shutdown(t *testing.T) {
	m, repo := newTestManager(t)
	for i := 0; i < 3; i++ {
		if _, err := m.Start(context.Background(), testUser()); err != nil {
			t.Fatalf("Start error: %v", err)
		}
	}

	m.Shutdown(context.Background())
	if m.ActiveCalls() != 0 || len(repo.calls) != 3 {
		t.Fatalf("shutdown must finish all calls: active=%d stored=%d", m.ActiveCalls(), len(repo.calls))
	}
}
