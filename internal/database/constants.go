package database

// Connection pool defaults
const (
	// DefaultMinConnections is the minimum number of connections kept open
	DefaultMinConnections = 2
)

// Error messages for database operations
const (
	ErrMsgFailedToParseConnString     = "failed to parse connection string"
	ErrMsgFailedToCreatePool          = "failed to create connection pool"
	ErrMsgFailedToPingDatabase        = "failed to ping database"
	ErrMsgFailedToBeginTransaction    = "failed to begin transaction"
	ErrMsgFailedToRollbackTransaction = "Failed to rollback transaction"
)

// Log messages
const (
	LogMsgConnectedToDatabase = "Connected to the database"
)
