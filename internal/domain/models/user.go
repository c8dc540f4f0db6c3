// internal/domain/models/user.go
package models

import "time"

// Role values. Raw role strings from older documents (case and locale
// variants) are canonicalized at the identity boundary; downstream code
// only ever compares against these two constants.
const (
	RoleLeader   = "leader"
	RoleMusician = "musician"
)

// User represents one member of the roster.
//
// The ID is the authentication subject id, not a generated ObjectID, so
// a roster lookup after login is a straight _id equality check. A
// musician with Active=false is pending verification by a leader.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Handle       string    `bson:"handle" json:"handle"`
	Role         string    `bson:"role" json:"role"` // leader | musician
	PhotoURL     string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Instrument   string    `bson:"instrument,omitempty" json:"instrument,omitempty"`
	Active       bool      `bson:"active" json:"active"`
	RegisteredAt time.Time `bson:"registered_at" json:"registered_at"`
}

// IsLeader reports whether the user holds the leader role.
func (u *User) IsLeader() bool { return u.Role == RoleLeader }
