package domain

import "time"

// Level is the numeric access tier. Higher levels grant membership in more
// channels; every user holds exactly one level in [MinLevel, MaxLevel].
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 4
)

// Valid reports whether l is inside the closed level range.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Status is the approval state of a user. The set is closed; every consumer
// must handle all three values.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// ParseStatus converts a raw string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusRejected:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// StatusForLevel returns the status a registration at the given level maps to:
// level 1 registrations are active immediately, anything higher waits for
// approval.
func StatusForLevel(level Level) Status {
	if level == MinLevel {
		return StatusActive
	}
	return StatusPending
}

// User represents a registered community member
type User struct {
	ID           int64      `json:"id"`
	TelegramID   int64      `json:"telegram_id"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	Level        Level      `json:"level"`
	Status       Status     `json:"status"`
	ApprovedBy   *int64     `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// IsActive reports whether the user's access is currently granted.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserFilter narrows user listings. Nil fields match everything.
type UserFilter struct {
	Level  *Level
	Status *Status
}
