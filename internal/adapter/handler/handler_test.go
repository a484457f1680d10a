package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/voice-agent/internal/adapter/dto/common"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	httpmw "github.com/johnquangdev/voice-agent/internal/infrastructure/http/middleware"
	pkgvalidator "github.com/johnquangdev/voice-agent/pkg/validator"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withUser(c echo.Context, u *entities.User) {
	c.Set(httpmw.UserKey, u)
	c.Set(httpmw.UserIDKey, u.ID)
}

func testUser() *entities.User {
	return &entities.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice", IsActive: true}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var body common.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

// memoryCallRepo is an in-memory repositories.CallRepository
type memoryCallRepo struct {
	mu    sync.Mutex
	calls []*entities.Call
	err   error
}

func (r *memoryCallRepo) Create(_ context.Context, c *entities.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	c.CreatedAt = time.Now().Add(time.Duration(len(r.calls)) * time.Millisecond)
	r.calls = append(r.calls, c)
	return nil
}

func (r *memoryCallRepo) ListByUser(_ context.Context, userID string) ([]*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.Call
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].UserID == userID {
			out = append(out, r.calls[i])
		}
	}
	return out, nil
}

var errDown = errors.New("connection refused")
