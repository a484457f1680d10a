package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeOwners map[uuid.UUID]string

func (f fakeOwners) Owner(id uuid.UUID) (string, bool) {
	owner, ok := f[id]
	return owner, ok
}

func TestRequireCallOwner(t *testing.T) {
	owner := uuid.New()
	callID := uuid.New()
	mw := RequireCallOwner(fakeOwners{callID: owner.String()})

	tests := []struct {
		name   string
		param  string
		user   uuid.UUID
		status int
	}{
		{"owner", callID.String(), owner, http.StatusOK},
		{"other user", callID.String(), uuid.New(), http.StatusForbidden},
		{"unknown call", uuid.NewString(), owner, http.StatusNotFound},
		{"bad id", "nope", owner, http.StatusBadRequest},
		{"anonymous", callID.String(), uuid.Nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.param)
			if tt.user != uuid.Nil {
				c.Set("user_id", tt.user)
			}

			err := mw(func(c echo.Context) error {
				if c.Get(CallIDKey).(uuid.UUID) != callID {
					t.Fatalf("call id not set")
				}
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
