// internal/domain/models/event.go
package models

import "time"

// Event kinds.
const (
	EventRehearsal = "rehearsal"
	EventService   = "service"
	EventActivity  = "activity"
)

// CalendarEvent is one entry on the shared calendar. Date is a plain
// calendar day (YYYY-MM-DD) and Time a clock time (HH:MM); neither
// carries a zone. Only leaders create or edit events.
type CalendarEvent struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Date      string    `bson:"date" json:"date"` // YYYY-MM-DD
	Time      string    `bson:"time" json:"time"` // HH:MM
	Kind      string    `bson:"kind" json:"kind"` // rehearsal | service | activity
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	SongIDs   []string  `bson:"song_ids,omitempty" json:"song_ids,omitempty"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"` // server-assigned
}
