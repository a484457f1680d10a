package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// one connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&entities.Call{}, &entities.User{}, &entities.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCallRepository_CreateAssignsIdentity(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	ctx := context.Background()

	call := &entities.Call{UserID: "u1", Summary: "Patient reported a headache; advised rest and hydration."}
	if err := repo.Create(ctx, call); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if call.ID == uuid.Nil {
		t.Fatalf("expected ID to be assigned")
	}
	if call.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be assigned")
	}
}

func TestCallRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	seed := []*entities.Call{
		{UserID: "u1", Summary: "first", CreatedAt: base},
		{UserID: "u2", Summary: "other user", CreatedAt: base.Add(time.Minute)},
		{UserID: "u1", Summary: "second", CreatedAt: base.Add(2 * time.Minute),
			Metadata: entities.CallMetadata{RoomName: "call-1", SummarySource: "model"}.ToJSONMap()},
	}
	for _, c := range seed {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	calls, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Summary != "second" || calls[1].Summary != "first" {
		t.Fatalf("expected newest first, got %q then %q", calls[0].Summary, calls[1].Summary)
	}
	if calls[0].Metadata["roomName"] != "call-1" {
		t.Fatalf("expected metadata to round-trip, got %v", calls[0].Metadata)
	}
}

func TestCallRepository_ListByUserEmpty(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))

	calls, err := repo.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if calls == nil || len(calls) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", calls)
	}
}

func TestCallRepository_CreateFailsWhenClosed(t *testing.T) {
	db := newTestDB(t)
	repo := NewCallRepository(db)

	sqlDB, _ := db.DB()
	sqlDB.Close()

	if err := repo.Create(context.Background(), entities.NewCall("u1", "summary")); err == nil {
		t.Fatalf("expected error on closed database")
	}
}

func TestSessionRepository_FindByTokenHashIgnoresRevoked(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	session := entities.NewSession(uuid.New(), "hash-1", time.Now().Add(time.Hour))
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	found, err := repo.FindByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("FindByTokenHash error: %v", err)
	}
	if found.ID != session.ID {
		t.Fatalf("expected session %s, got %s", session.ID, found.ID)
	}

	if err := repo.Revoke(ctx, session.ID); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if _, err := repo.FindByTokenHash(ctx, "hash-1"); err != entities.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestUserRepository_FindByOAuth(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := entities.NewOAuthUser("ana@example.com", "Ana", "google", "g-123")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	found, err := repo.FindByOAuth(ctx, "google", "g-123")
	if err != nil {
		t.Fatalf("FindByOAuth error: %v", err)
	}
	if found.Email != "ana@example.com" {
		t.Fatalf("unexpected user %q", found.Email)
	}

	if _, err := repo.FindByEmail(ctx, "missing@example.com"); err != entities.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
