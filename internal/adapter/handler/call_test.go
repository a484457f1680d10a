package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	callDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/call"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	callUsecase "github.com/johnquangdev/voice-agent/internal/usecase/call"
)

func TestCall_ListCalls(t *testing.T) {
	user := testUser()
	repo := &memoryCallRepo{calls: []*entities.Call{
		entities.NewCall(user.Identity(), "first"),
		entities.NewCall("someone-else", "other"),
		entities.NewCall(user.Identity(), "second"),
	}}
	h := NewCallHandler(callUsecase.NewService(repo), zap.NewNop())

	e := newEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/v1/calls", "")
	withUser(c, user)

	if err := h.ListCalls(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var calls []callDTO.CallResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &calls); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(calls) != 2 || calls[0].Summary != "second" || calls[1].Summary != "first" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestCall_ListCallsEmptyIsArray(t *testing.T) {
	h := NewCallHandler(callUsecase.NewService(&memoryCallRepo{}), zap.NewNop())
	e := newEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/v1/calls", "")
	withUser(c, testUser())

	_ = h.ListCalls(c)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCall_ListCallsErrors(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		h := NewCallHandler(callUsecase.NewService(&memoryCallRepo{}), zap.NewNop())
		c, rec := newJSONContext(newEcho(), http.MethodGet, "/v1/calls", "")

		_ = h.ListCalls(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if body := decodeError(t, rec); body.Error != "User not authenticated" {
			t.Fatalf("error = %q", body.Error)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		h := NewCallHandler(callUsecase.NewService(&memoryCallRepo{err: errDown}), zap.NewNop())
		c, rec := newJSONContext(newEcho(), http.MethodGet, "/v1/calls", "")
		withUser(c, testUser())

		_ = h.ListCalls(c)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		if body := decodeError(t, rec); body.Error != "Error fetching calls" {
			t.Fatalf("error = %q", body.Error)
		}
	})
}

func TestCall_CreateCall(t *testing.T) {
	user := testUser()

	tests := []struct {
		name    string
		body    string
		repoErr error
		status  int
		errMsg  string
	}{
		{"created", `{"userId":"` + user.Identity() + `","summary":"Talked about sleep."}`, nil, http.StatusCreated, ""},
		{"missing summary", `{"userId":"` + user.Identity() + `"}`, nil, http.StatusBadRequest, "Missing fields"},
		{"blank summary", `{"userId":"` + user.Identity() + `","summary":"   "}`, nil, http.StatusBadRequest, "Missing fields"},
		{"missing user", `{"summary":"x"}`, nil, http.StatusBadRequest, "Missing fields"},
		{"malformed", `{"userId":`, nil, http.StatusBadRequest, "Missing fields"},
		{"other user", `{"userId":"someone-else","summary":"x"}`, nil, http.StatusForbidden, "Permission denied: store calls for another user"},
		{"store failure", `{"userId":"` + user.Identity() + `","summary":"x"}`, errDown, http.StatusInternalServerError, "Error creating call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryCallRepo{err: tt.repoErr}
			h := NewCallHandler(callUsecase.NewService(repo), zap.NewNop())
			c, rec := newJSONContext(newEcho(), http.MethodPost, "/v1/calls", tt.body)
			withUser(c, user)

			if err := h.CreateCall(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.errMsg != "" {
				if body := decodeError(t, rec); body.Error != tt.errMsg {
					t.Fatalf("error = %q, want %q", body.Error, tt.errMsg)
				}
				return
			}

			var created callDTO.CallResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if created.ID == "" || created.UserID != user.Identity() || len(repo.calls) != 1 {
				t.Fatalf("unexpected created call %+v", created)
			}
		})
	}
}
