// internal/app/system/accounts/accounts.go
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/identity"
	"github.com/dalemusser/ministryhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Provider error codes. The HTTP layer maps each to a distinct
// user-facing message; anything else gets a generic failure with the
// detail kept in the logs.
var (
	ErrAccountExists  = errors.New("an account with this handle already exists")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
	ErrSignupDisabled = errors.New("sign-up is not enabled")
	ErrBadCredentials = errors.New("wrong handle or password")
)

const (
	collCredentials = "credentials"
	minPasswordLen  = 6
	bcryptCost      = 12
)

// Provider authenticates handle/password credentials and yields auth
// events for the identity resolver. The session itself (the server-side
// analog of the provider's session-change stream) lives in the auth
// session cookie.
type Provider interface {
	SignIn(ctx context.Context, identifier, password string) (*identity.AuthEvent, error)
	CreateAccount(ctx context.Context, displayName, identifier, password string) (*identity.AuthEvent, error)
}

// LocalProvider keeps credentials in their own collection, separate
// from the roster. Emails are synthesized as handle@<domain> the way
// the login screen always has.
type LocalProvider struct {
	gw            remote.Gateway
	domain        string
	signupEnabled bool
	log           *zap.Logger
}

// NewLocal creates a provider. domain is the synthetic email domain
// (e.g. "church.org"); signupEnabled gates CreateAccount.
func NewLocal(gw remote.Gateway, domain string, signupEnabled bool, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{gw: gw, domain: domain, signupEnabled: signupEnabled, log: logger}
}

type credential struct {
	ID           string    `bson:"_id"`
	Handle       string    `bson:"handle"`
	Email        string    `bson:"email"`
	DisplayName  string    `bson:"display_name"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// SignIn checks a handle (or synthetic email) and password. Unknown
// handles and wrong passwords both come back as ErrBadCredentials; the
// caller cannot tell which, on purpose.
func (p *LocalProvider) SignIn(ctx context.Context, identifier, password string) (*identity.AuthEvent, error) {
	handle := normalize.Handle(identifier)
	if handle == "" {
		return nil, ErrBadCredentials
	}

	cred, err := p.findByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	return &identity.AuthEvent{
		SubjectID:   cred.ID,
		DisplayName: cred.DisplayName,
		Email:       cred.Email,
	}, nil
}

// CreateAccount registers a new credential and returns its auth event.
func (p *LocalProvider) CreateAccount(ctx context.Context, displayName, identifier, password string) (*identity.AuthEvent, error) {
	if !p.signupEnabled {
		return nil, ErrSignupDisabled
	}
	handle := normalize.Handle(identifier)
	if handle == "" {
		return nil, ErrBadCredentials
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	existing, err := p.findByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	email := handle + "@" + p.domain
	fields := bson.M{
		"handle":        handle,
		"email":         email,
		"display_name":  normalize.Name(displayName),
		"password_hash": string(hash),
		"created_at":    time.Now().UTC(),
	}
	id, err := p.gw.Upsert(ctx, collCredentials, "", fields)
	if err != nil {
		return nil, err
	}

	return &identity.AuthEvent{
		SubjectID:   id,
		DisplayName: normalize.Name(displayName),
		Email:       email,
	}, nil
}

func (p *LocalProvider) findByHandle(ctx context.Context, handle string) (*credential, error) {
	snap, err := p.gw.GetAll(ctx, collCredentials)
	if err != nil {
		return nil, err
	}
	for _, doc := range snap {
		if h, _ := doc["handle"].(string); h == handle {
			var c credential
			raw, err := bson.Marshal(doc)
			if err == nil {
				err = bson.Unmarshal(raw, &c)
			}
			if err != nil {
				p.log.Warn("malformed credential record", zap.String("handle", handle), zap.Error(err))
				continue
			}
			return &c, nil
		}
	}
	return nil, nil
}
