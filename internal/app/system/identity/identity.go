// internal/app/system/identity/identity.go
package identity

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/normalize"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Fallbacks used when the auth profile carries no usable name or email.
const (
	fallbackName   = "Member"
	fallbackHandle = "member"
)

// AuthEvent is what the authentication provider hands us on a session
// change: the stable subject id plus whatever profile fields it knows.
// A nil *AuthEvent means "logged out".
type AuthEvent struct {
	SubjectID   string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Resolver turns auth events into application User records, creating a
// roster record for first-time subjects.
type Resolver struct {
	gw  remote.Gateway
	log *zap.Logger
}

// New creates a resolver over the roster collection.
func New(gw remote.Gateway, logger *zap.Logger) *Resolver {
	return &Resolver{gw: gw, log: logger}
}

// Resolve maps an auth event to a User.
//
// A nil event resolves to (nil, nil): no session. A roster hit is
// returned as-is apart from role canonicalization. A miss synthesizes a
// musician record and persists it best-effort: persistence failure is
// logged but does not fail the login, so the user still gets a session.
// A roster read failure returns the error; callers treat it as no
// session rather than crashing bootstrap.
func (r *Resolver) Resolve(ctx context.Context, ev *AuthEvent) (*models.User, error) {
	if ev == nil {
		return nil, nil
	}

	snap, err := r.gw.GetAll(ctx, remote.CollUsers)
	if err != nil {
		r.log.Error("roster read failed during login", zap.Error(err))
		return nil, fmt.Errorf("roster read: %w", err)
	}

	for _, doc := range snap {
		if id, _ := doc["_id"].(string); id == ev.SubjectID {
			var u models.User
			raw, err := bson.Marshal(doc)
			if err == nil {
				err = bson.Unmarshal(raw, &u)
			}
			if err != nil {
				r.log.Error("roster record decode failed",
					zap.String("user_id", ev.SubjectID), zap.Error(err))
				return nil, fmt.Errorf("roster decode: %w", err)
			}
			u.Role = normalize.Role(u.Role)
			return &u, nil
		}
	}

	u := r.synthesize(ev)

	// Persist so later reads and permission checks keyed on existence
	// succeed. Non-fatal: the session proceeds either way.
	fields := bson.M{
		"name":          u.Name,
		"handle":        u.Handle,
		"role":          u.Role,
		"photo_url":     u.PhotoURL,
		"active":        u.Active,
		"registered_at": u.RegisteredAt,
	}
	if _, err := r.gw.Upsert(ctx, remote.CollUsers, u.ID, fields); err != nil {
		r.log.Warn("could not persist synthesized roster record",
			zap.String("user_id", u.ID), zap.Error(err))
	}

	return u, nil
}

// synthesize builds a first-login User from the auth profile.
func (r *Resolver) synthesize(ev *AuthEvent) *models.User {
	name := normalize.Name(ev.DisplayName)
	if name == "" {
		name = fallbackName
	}
	handle := normalize.Handle(ev.Email)
	if handle == "" {
		handle = fallbackHandle
	}
	photo := ev.PhotoURL
	if photo == "" {
		photo = avatarURL(name)
	}

	return &models.User{
		ID:           ev.SubjectID,
		Name:         name,
		Handle:       handle,
		Role:         models.RoleMusician,
		PhotoURL:     photo,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
}

// avatarURL builds a deterministic generated-avatar URL keyed by name.
func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
