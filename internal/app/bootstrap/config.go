package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// auditModes are the accepted values for the audit_log_* keys.
var auditModes = map[string]bool{"all": true, "db": true, "log": true, "off": true}

// appConfigKeys defines the configuration keys for reelcircle.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: REELCIRCLE_MONGO_URI, REELCIRCLE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "reelcircle", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "reelcircle-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "audit_log_moderation", Default: "all", Desc: "Moderation event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "flag_rate_limit", Default: 20, Desc: "Reports a user may file per flag_rate_window (0 disables)"},
	{Name: "flag_rate_window", Default: "10m", Desc: "Window for flag_rate_limit"},

	{Name: "timeout_short", Default: "", Desc: "Timeout for single-document operations (e.g. 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Timeout for listings and review writes"},
	{Name: "timeout_long", Default: "", Desc: "Timeout for report resolution and content removal"},
	{Name: "timeout_batch", Default: "", Desc: "Timeout for user bans"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults, with REELCIRCLE_* as the
// environment prefix for app keys.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "REELCIRCLE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		AuditLogModeration: appValues.String("audit_log_moderation"),
		AuditLogAdmin:      appValues.String("audit_log_admin"),

		FlagRateLimit:  appValues.Int("flag_rate_limit"),
		FlagRateWindow: appValues.Duration("flag_rate_window", 10*time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
		TimeoutBatch:  appValues.Duration("timeout_batch", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configuration that would fail later at connect
// time or silently disable auditing.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateApp(appCfg); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}
	return nil
}

func validateApp(appCfg AppConfig) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if appCfg.FlagRateLimit < 0 {
		return fmt.Errorf("flag_rate_limit must not be negative")
	}
	if appCfg.FlagRateLimit > 0 && appCfg.FlagRateWindow <= 0 {
		return fmt.Errorf("flag_rate_window must be positive")
	}
	if !auditModes[appCfg.AuditLogModeration] {
		return fmt.Errorf("audit_log_moderation: unknown mode %q", appCfg.AuditLogModeration)
	}
	if !auditModes[appCfg.AuditLogAdmin] {
		return fmt.Errorf("audit_log_admin: unknown mode %q", appCfg.AuditLogAdmin)
	}
	return nil
}
