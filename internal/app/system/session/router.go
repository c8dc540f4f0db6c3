// internal/app/system/session/router.go
package session

import (
	"sync"

	"github.com/dalemusser/ministryhub/internal/domain/models"
	"go.uber.org/zap"
)

// State of the session router.
type State int

const (
	StateUninitialized State = iota
	StateAuthenticating
	StateAuthenticated
	StateUnauthenticated
)

// Router owns current-screen state for one session. It restores the
// persisted view on login, re-validates every view against the user's
// role, and persists each authenticated navigation.
//
// The guarantee it maintains: a restored view never grants access to a
// screen the current role cannot use, even if the view was persisted
// under a previous role. Role-gating violations are corrected by silent
// substitution, never surfaced as errors.
type Router struct {
	mu    sync.Mutex
	views ViewStore
	log   *zap.Logger

	state State
	user  *models.User
	view  View
}

// NewRouter creates a router in the uninitialized state.
func NewRouter(views ViewStore, logger *zap.Logger) *Router {
	return &Router{views: views, log: logger, view: ViewLogin}
}

// Begin moves the router to authenticating. It is called once at mount,
// before the first auth event arrives.
func (r *Router) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateUninitialized {
		r.state = StateAuthenticating
	}
}

// State returns the current router state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// User returns the authenticated user, or nil.
func (r *Router) User() *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user
}

// View returns the current screen.
func (r *Router) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Resolve consumes the identity resolver's answer. A user moves the
// router to authenticated and computes the initial screen: the
// persisted view when present and role-valid, otherwise the role's home
// screen. nil means no session: persisted view is cleared and the
// router lands on the login screen.
func (r *Router) Resolve(u *models.User) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u == nil {
		r.state = StateUnauthenticated
		r.user = nil
		r.view = ViewLogin
		r.views.Clear()
		return r.view
	}

	r.state = StateAuthenticated
	r.user = u

	if saved, ok := r.views.Load(); ok && saved != ViewLogin {
		if Allowed(u.Role, saved) {
			r.view = saved
		} else {
			r.log.Debug("persisted view not allowed for role, substituting home",
				zap.String("view", string(saved)), zap.String("role", u.Role))
			r.view = HomeFor(u.Role)
		}
	} else {
		r.view = HomeFor(u.Role)
	}

	r.views.Save(r.view)
	return r.view
}

// Navigate requests a screen change while authenticated. Unknown or
// role-gated screens substitute the role's home screen. The resulting
// view is persisted synchronously (the login screen never is).
func (r *Router) Navigate(v View) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAuthenticated {
		return ViewLogin
	}

	if !v.Valid() || v == ViewLogin {
		v = HomeFor(r.user.Role)
	} else if !Allowed(r.user.Role, v) {
		v = HomeFor(r.user.Role)
	}

	r.view = v
	r.views.Save(v)
	return v
}

// SignOut moves the router to unauthenticated and clears the persisted
// view.
func (r *Router) SignOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateUnauthenticated
	r.user = nil
	r.view = ViewLogin
	r.views.Clear()
}
