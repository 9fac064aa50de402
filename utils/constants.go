package utils

const (
	// Backends
	BackendEmbedded = "embedded"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	// Key-value storage
	MatchesKey        = "court-matches"
	DefaultKeyPrefix  = "courtsplit"
	DefaultSQLitePath = "./data/matches.db"

	// Display
	UnnamedParticipant = "Unnamed"
	DateLayout         = "02/01/2006"
	DateTimeLayout     = "02/01/2006 15:04"

	// HTTP status messages
	ErrInvalidRequest = "Invalid request"
	ErrInvalidFilter  = "Invalid filter"
	ErrFailedToExport = "Failed to export matches"

	// Precision for monetary calculations
	MoneyPlaces = 2
)
