package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed = "Method not allowed"
	ErrMsgInvalidRequest   = "Invalid request body"
	ErrMsgInvalidUserID    = "Invalid user id"
	ErrMsgInvalidContentID = "Invalid content id"

	ErrMsgRegisterFailed    = "Failed to register user"
	ErrMsgApproveFailed     = "Failed to resolve approval"
	ErrMsgChangeLevelFailed = "Failed to change level"
	ErrMsgDeleteUserFailed  = "Failed to delete user"
	ErrMsgListUsersFailed   = "Failed to list users"

	ErrMsgPublishFailed = "Failed to publish content"
	ErrMsgHistoryFailed = "Failed to retrieve content history"
	ErrMsgNotifyFailed  = "Failed to notify channel"
)
