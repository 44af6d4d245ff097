package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Content errors
	ErrMsgContentNotFound = "content not found"

	// Validation errors
	ErrMsgInvalidLevel  = "invalid level"
	ErrMsgInvalidStatus = "invalid status"
	ErrMsgInvalidInput  = "invalid input"

	// Channel errors
	ErrMsgChannelNotConfigured = "channel not configured"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Content errors
	ErrContentNotFound = errors.New(ErrMsgContentNotFound)

	// Validation errors
	ErrInvalidLevel  = errors.New(ErrMsgInvalidLevel)
	ErrInvalidStatus = errors.New(ErrMsgInvalidStatus)
	ErrInvalidInput  = errors.New(ErrMsgInvalidInput)

	// Channel errors
	// Not a failure: consumers treat it as "skip this level".
	ErrChannelNotConfigured = errors.New(ErrMsgChannelNotConfigured)

	// Database/System errors
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
