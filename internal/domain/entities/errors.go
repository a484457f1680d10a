package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidName  = errors.New("invalid name")

	// OAuth errors
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidToken    = errors.New("invalid token")

	// Call errors
	ErrCallNotFound     = errors.New("call not found")
	ErrCallNotActive    = errors.New("call is not active")
	ErrCallFinished     = errors.New("call already finished")
	ErrCallAccessDenied = errors.New("call belongs to another user")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
)
