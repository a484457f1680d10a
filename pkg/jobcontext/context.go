package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyCallID    KeyContext = "call_id"
	keyUserID    KeyContext = "user_id"
	keyStage     KeyContext = "stage"
	keyStartTime KeyContext = "job_start_time"
)

// JobBegin detaches the pipeline from the caller's cancellation and tags it
// with call metadata. Values of the parent stay visible.
func JobBegin(parentCtx context.Context, callID uuid.UUID, userID string) context.Context {
	ctx := context.WithoutCancel(parentCtx)
	ctx = context.WithValue(ctx, keyCallID, callID)
	ctx = context.WithValue(ctx, keyUserID, userID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx
}

// RunStage executes one pipeline stage exactly once. A panic inside fn is
// returned as an error.
func RunStage(ctx context.Context, stage string, fn func(context.Context) error) (err error) {
	ctx = context.WithValue(ctx, keyStage, stage)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: panic recovered: %v", stage, p)
		}
	}()

	return fn(ctx)
}

// GetCallID extracts the call ID from context
func GetCallID(ctx context.Context) (uuid.UUID, bool) {
	callID, ok := ctx.Value(keyCallID).(uuid.UUID)
	return callID, ok
}

// GetUserID extracts the owning user from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(keyUserID).(string)
	return userID, ok
}

// GetStage extracts the current stage name from context
func GetStage(ctx context.Context) string {
	stage, _ := ctx.Value(keyStage).(string)
	return stage
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// Elapsed returns the time since JobBegin, or zero when unknown
func Elapsed(ctx context.Context) time.Duration {
	start, ok := GetJobStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// IsTransientError reports whether err looks like a passing infrastructure
// failure (network, timeout, rate limit, 5xx). Used for log classification only.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"network unreachable",
		"no such host",
		"i/o timeout",
		"deadlock",
		"40001", // serialization_failure
		"40p01", // deadlock_detected
		"rate limit",
		"too many requests",
		"429",
		"status 5",
		"service unavailable",
		"bad gateway",
		"temporary failure",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
