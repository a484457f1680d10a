package oauth

import (
	"context"
	"testing"

	"github.com/johnquangdev/voice-agent/internal/infrastructure/cache"
)

func TestStateManager_StateIsSingleUse(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	sm := NewStateManager(store)
	ctx := context.Background()

	state, err := sm.GenerateState(ctx)
	if err != nil {
		t.Fatalf("GenerateState error: %v", err)
	}

	ok, err := sm.ValidateState(ctx, state)
	if err != nil || !ok {
		t.Fatalf("expected first validation to pass, got ok=%v err=%v", ok, err)
	}

	ok, _ = sm.ValidateState(ctx, state)
	if ok {
		t.Fatalf("state must not validate twice")
	}
}

func TestStateManager_UnknownState(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	sm := NewStateManager(store)

	ok, err := sm.ValidateState(context.Background(), "forged")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("forged state must be rejected")
	}
}
