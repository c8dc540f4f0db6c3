// internal/app/system/session/view.go
package session

import "github.com/dalemusser/ministryhub/internal/domain/models"

// View identifies one screen of the app.
type View string

const (
	ViewLogin        View = "login"
	ViewDashboard    View = "dashboard"
	ViewCalendar     View = "calendar"
	ViewSongs        View = "songs"
	ViewTeam         View = "team"
	ViewMusicianHome View = "musician"
	ViewNotices      View = "notices"
)

// leaderOnly lists the screens a musician may never reach. Requests for
// them are silently redirected to the musician home screen.
var leaderOnly = map[View]bool{
	ViewDashboard: true,
	ViewSongs:     true,
}

// Valid reports whether v names a known screen.
func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewDashboard, ViewCalendar, ViewSongs,
		ViewTeam, ViewMusicianHome, ViewNotices:
		return true
	}
	return false
}

// Allowed reports whether a user with the given role may use view v.
func Allowed(role string, v View) bool {
	if leaderOnly[v] {
		return role == models.RoleLeader
	}
	return true
}

// HomeFor returns the landing screen for a role.
func HomeFor(role string) View {
	if role == models.RoleLeader {
		return ViewDashboard
	}
	return ViewMusicianHome
}
