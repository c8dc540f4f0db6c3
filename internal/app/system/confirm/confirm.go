// internal/app/system/confirm/confirm.go
package confirm

import "context"

// Backend flag values (config key confirmations_backend).
const (
	BackendLegacy = "legacy"
	BackendShared = "shared"
)

// Key builds the composite key identifying one (event, user)
// confirmation. The format is fixed; both storage paths use it
// verbatim.
func Key(eventID, userID string) string {
	return eventID + "_" + userID
}

// Service records and reads per-(event, user) attendance flags. Both
// implementations share the same externally observable semantics:
// toggling twice returns to the original state, and reading a key that
// was never written yields false, never an error.
//
// The legacy path is local to this process; the shared path is visible
// to every connected client through the live confirmation feed. The two
// paths own separate storage and may coexist during migration.
type Service interface {
	// Toggle flips the confirmation and returns the new status.
	Toggle(ctx context.Context, eventID, userID string) (bool, error)

	// Read returns the current confirmation status.
	Read(ctx context.Context, eventID, userID string) (bool, error)
}
