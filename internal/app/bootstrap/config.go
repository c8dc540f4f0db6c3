// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/system/confirm"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for MinistryHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: MINISTRYHUB_MONGO_URI, MINISTRYHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ministry_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "ministryhub-session", Desc: "Auth cookie name"},
	{Name: "session_domain", Default: "", Desc: "Auth cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Auth cookie lifetime (e.g., 720h for 30 days)"},

	{Name: "account_domain", Default: "ministryhub.local", Desc: "Synthetic email domain for handle-based accounts"},
	{Name: "signup_enabled", Default: true, Desc: "Allow self-service registration"},

	{Name: "confirmations_backend", Default: confirm.BackendShared, Desc: "Attendance storage path: 'legacy' (local blob) or 'shared' (store-backed)"},
	{Name: "confirmations_blob_path", Default: "./data/confirmations.json", Desc: "JSON blob file used by the legacy attendance path"},
	{Name: "migrate_confirmations", Default: false, Desc: "Copy legacy attendance entries into the shared store on startup"},

	{Name: "photo_local_path", Default: "./uploads/photos", Desc: "Local storage path for profile photos"},
	{Name: "photo_local_url", Default: "/files/photos", Desc: "URL prefix for serving stored photos"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, MINISTRYHUB_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MINISTRYHUB", appConfigKeys)
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
		SessionMaxAge: appValues.Duration("session_max_age", 720*time.Hour),

		AccountDomain: appValues.String("account_domain"),
		SignupEnabled: appValues.Bool("signup_enabled"),

		ConfirmationsBackend:  appValues.String("confirmations_backend"),
		ConfirmationsBlobPath: appValues.String("confirmations_blob_path"),
		MigrateConfirmations:  appValues.Bool("migrate_confirmations"),

		PhotoLocalPath: appValues.String("photo_local_path"),
		PhotoLocalURL:  appValues.String("photo_local_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// MinistryHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects unknown
// attendance backends so a typo cannot silently fall back.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.ConfirmationsBackend {
	case confirm.BackendLegacy, confirm.BackendShared:
	default:
		return fmt.Errorf("confirmations_backend must be %q or %q, got %q",
			confirm.BackendLegacy, confirm.BackendShared, appCfg.ConfirmationsBackend)
	}

	if appCfg.MigrateConfirmations && appCfg.ConfirmationsBackend == confirm.BackendLegacy {
		return fmt.Errorf("migrate_confirmations requires confirmations_backend=%q", confirm.BackendShared)
	}

	return nil
}
