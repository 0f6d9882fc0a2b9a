package bootstrap

import "time"

// AppConfig holds service-specific configuration for reelcircle.
//
// WAFFLE's CoreConfig covers the framework side (ports, TLS, log level,
// CORS, body limits). Everything the moderation and rating core needs at
// startup lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // e.g. mongodb://localhost:27017
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie issued by the sign-in service
	SessionKey    string
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// Audit logging modes: "all", "db", "log" or "off"
	AuditLogModeration string
	AuditLogAdmin      string

	// Report filing throttle per actor; a limit of 0 disables it.
	FlagRateLimit  int
	FlagRateWindow time.Duration

	// Handler timeout overrides; zero keeps the package default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration
}
