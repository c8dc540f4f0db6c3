// internal/app/system/session/viewstore.go
package session

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const viewCookieName = "ministryhub-view"

// viewCookieMaxAge keeps the restored screen around for half a year.
const viewCookieMaxAge = 180 * 24 * 60 * 60

// ViewStore persists the last active screen across sessions. Load
// reports whether a value was present. Implementations are best-effort;
// a lost view only costs the user their restored screen.
type ViewStore interface {
	Load() (View, bool)
	Save(v View)
	Clear()
}

// ViewCodec signs and verifies persisted-view cookies.
type ViewCodec struct {
	sc *securecookie.SecureCookie
}

// NewViewCodec builds a codec from the session signing key.
func NewViewCodec(key string) *ViewCodec {
	return &ViewCodec{sc: securecookie.New([]byte(key), nil)}
}

// CookieViewStore is the HTTP implementation of ViewStore: one signed
// cookie holding the last screen identifier. It is bound to a single
// request/response pair; construct a fresh one per request.
type CookieViewStore struct {
	codec  *ViewCodec
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	log    *zap.Logger
}

// NewCookieViewStore binds the codec to one request.
func (c *ViewCodec) NewCookieViewStore(w http.ResponseWriter, r *http.Request, secure bool, logger *zap.Logger) *CookieViewStore {
	return &CookieViewStore{codec: c, w: w, r: r, secure: secure, log: logger}
}

func (s *CookieViewStore) Load() (View, bool) {
	c, err := s.r.Cookie(viewCookieName)
	if err != nil {
		return "", false
	}
	var raw string
	if err := s.codec.sc.Decode(viewCookieName, c.Value, &raw); err != nil {
		// Tampered or stale cookie: treat as absent.
		return "", false
	}
	v := View(raw)
	if !v.Valid() {
		return "", false
	}
	return v, true
}

func (s *CookieViewStore) Save(v View) {
	encoded, err := s.codec.sc.Encode(viewCookieName, string(v))
	if err != nil {
		s.log.Warn("persisting view failed", zap.Error(err))
		return
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     viewCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   viewCookieMaxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieViewStore) Clear() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     viewCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
