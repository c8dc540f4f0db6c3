// internal/domain/models/confirmation.go
package models

import "time"

// Confirmation records one (event, user) attendance flag. Its document
// id is the composite key "<eventID>_<userID>"; last write wins by
// timestamp.
type Confirmation struct {
	ID        string    `bson:"_id" json:"id"`
	EventID   string    `bson:"event_id" json:"event_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Confirmed bool      `bson:"confirmed" json:"confirmed"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
