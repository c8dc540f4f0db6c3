// internal/domain/models/song.go
package models

import "time"

// Weekday assignments for songs.
const (
	WeekdayThursday = "thursday"
	WeekdaySunday   = "sunday"
)

// Song is one catalog entry. MusicianIDs are roster user ids assigned
// to play the song; Weekday, when set, is thursday or sunday.
type Song struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Artist      string    `bson:"artist" json:"artist"`
	Key         string    `bson:"key" json:"key"`
	Link        string    `bson:"link,omitempty" json:"link,omitempty"`
	Weekday     string    `bson:"weekday,omitempty" json:"weekday,omitempty"`
	MusicianIDs []string  `bson:"musician_ids,omitempty" json:"musician_ids,omitempty"`
	CreatedBy   string    `bson:"created_by" json:"created_by"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}
