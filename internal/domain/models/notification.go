// internal/domain/models/notification.go
package models

import "time"

// Notification kinds.
const (
	NotifyCreate = "create"
	NotifyEdit   = "edit"
	NotifyDelete = "delete"
)

// Notification audiences.
const (
	AudienceMusicians = "musicians"
	AudienceLeaders   = "leaders"
)

// Notification is one activity-feed entry. The read flag is global to
// the feed, not per reader: marking a notification read marks it read
// for every client.
type Notification struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Kind      string    `bson:"kind" json:"kind"` // create | edit | delete
	Message   string    `bson:"message" json:"message"`
	Audience  string    `bson:"audience" json:"audience"` // musicians | leaders
	Read      bool      `bson:"read" json:"read"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
