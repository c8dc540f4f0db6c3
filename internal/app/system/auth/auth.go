// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/system/identity"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey  = "is_authenticated"
	subjectKey = "subject_id"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// UserResolver maps the session's auth subject to an application user.
// Satisfied by identity.Resolver.
type UserResolver interface {
	Resolve(ctx context.Context, ev *identity.AuthEvent) (*models.User, error)
}

// SessionManager owns the auth session cookie. With a resolver set,
// LoadSessionUser re-resolves the subject on every request, so role
// changes and verification flips take effect immediately instead of
// living in the cookie until it expires.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	resolver UserResolver
	log      *zap.Logger
}

// NewSessionManager initializes the cookie store. The session key must
// be non-empty; 32+ chars recommended.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetResolver wires the identity resolver used by LoadSessionUser.
func (m *SessionManager) SetResolver(r UserResolver) { m.resolver = r }

// Store exposes the underlying cookie store (logout needs its options).
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// GetSession returns the request's session, new or existing.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SignIn records the auth subject in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, subjectID string) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[subjectKey] = subjectID
	return sess.Save(r, w)
}

// SignOut deletes the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		m.log.Warn("session decode failed during sign-out", zap.Error(err))
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Subject returns the authenticated subject id from the cookie, if any.
func (m *SessionManager) Subject(r *http.Request) (string, bool) {
	sess, _ := m.store.Get(r, m.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return "", false
	}
	id, _ := sess.Values[subjectKey].(string)
	return id, id != ""
}

// CurrentUser returns the resolved user injected by LoadSessionUser.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithUser injects a user into the request context. Exported for
// handler tests.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// LoadSessionUser resolves the session's subject into a User and puts
// it in the request context. Resolution failures degrade to "no user";
// the request continues unauthenticated rather than erroring.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := m.Subject(r)
		if ok && m.resolver != nil {
			u, err := m.resolver.Resolve(r.Context(), &identity.AuthEvent{SubjectID: subject})
			if err != nil {
				m.log.Warn("session user resolution failed", zap.Error(err))
			} else if u != nil {
				r = WithUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests with no resolved user.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLeader rejects requests from non-leader users. This is the
// client-layer gate only; it mirrors the view router's rules.
func RequireLeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !u.IsLeader() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
