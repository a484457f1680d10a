package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden access")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrStore           = errors.New("store failure")
)

// Auth errors
var (
	ErrInvalidState   = errors.New("invalid oauth state")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrSessionExpired = errors.New("session expired")
)

// ValidationError reports a missing or empty input field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AuthError reports that the operation has no authenticated caller
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: user not authenticated", e.Op)
}

func (e *AuthError) Is(target error) bool { return target == ErrUnauthenticated }

// StoreError wraps a persistence failure
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
