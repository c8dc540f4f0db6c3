// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS, log
// level, timeouts); everything specific to MinistryHub lives here. The
// struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown belongs in it.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // secret key for signing session cookies
	SessionName   string        // auth cookie name
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // auth cookie lifetime

	// Account provider configuration
	AccountDomain string // synthetic email domain for handle-based accounts
	SignupEnabled bool   // whether self-service registration is open

	// Attendance confirmation configuration. Backend selects the
	// storage path; the blob path only matters on the legacy path.
	ConfirmationsBackend  string // "legacy" or "shared"
	ConfirmationsBlobPath string // JSON blob file for the legacy path
	MigrateConfirmations  bool   // copy legacy entries into the shared store on startup

	// Profile photo storage
	PhotoLocalPath string // local storage path for uploaded photos
	PhotoLocalURL  string // URL prefix for serving stored photos
}
