// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/accounts"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/dalemusser/ministryhub/internal/app/system/identity"
	"github.com/dalemusser/ministryhub/internal/app/system/normalize"
	"github.com/dalemusser/ministryhub/internal/app/system/session"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// User-facing messages for each provider error code. Unrecognized
// errors fall back to a generic message; the detail stays in the logs.
const (
	msgAccountExists  = "That username is already taken."
	msgWeakPassword   = "Password is too short. Use at least 6 characters."
	msgSignupDisabled = "Sign-up is not currently enabled."
	msgBadCredentials = "Wrong username or password."
	msgGeneric        = "Something went wrong. Please try again."
)

type Handler struct {
	Provider   accounts.Provider
	Resolver   auth.UserResolver
	SessionMgr *auth.SessionManager
	ViewCodec  *session.ViewCodec
	Gateway    remote.Gateway
	Secure     bool
	Log        *zap.Logger
}

func NewHandler(
	provider accounts.Provider,
	resolver auth.UserResolver,
	sessionMgr *auth.SessionManager,
	viewCodec *session.ViewCodec,
	gw remote.Gateway,
	secure bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Provider:   provider,
		Resolver:   resolver,
		SessionMgr: sessionMgr,
		ViewCodec:  viewCodec,
		Gateway:    gw,
		Secure:     secure,
		Log:        logger,
	}
}

type signInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Instrument string `json:"instrument,omitempty"`
}

type sessionResponse struct {
	User *models.User `json:"user"`
	View session.View `json:"view"`
}

// HandleSignIn handles POST /login.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ev, err := h.Provider.SignIn(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	h.establish(w, r, ev)
}

// HandleRegister handles POST /login/register: creates the credential,
// writes the roster record with the chosen role, and signs the new user
// in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if normalize.Name(req.Name) == "" {
		httpjson.Error(w, http.StatusBadRequest, "Please fill in all fields.")
		return
	}

	ev, err := h.Provider.CreateAccount(r.Context(), req.Name, req.Identifier, req.Password)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	// The roster record carries the chosen role, so the identity
	// resolver finds it instead of synthesizing a default musician.
	u := models.User{
		ID:           ev.SubjectID,
		Name:         normalize.Name(req.Name),
		Handle:       normalize.Handle(req.Identifier),
		Role:         normalize.Role(req.Role),
		PhotoURL:     "https://ui-avatars.com/api/?name=" + url.QueryEscape(normalize.Name(req.Name)) + "&background=random",
		Instrument:   req.Instrument,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
	fields := bson.M{
		"name":          u.Name,
		"handle":        u.Handle,
		"role":          u.Role,
		"photo_url":     u.PhotoURL,
		"instrument":    u.Instrument,
		"active":        u.Active,
		"registered_at": u.RegisteredAt,
	}
	if _, err := h.Gateway.Upsert(r.Context(), remote.CollUsers, u.ID, fields); err != nil {
		// The credential exists; the resolver will synthesize a roster
		// record on first resolve. Log and continue.
		h.Log.Warn("roster write failed during registration",
			zap.String("user_id", u.ID), zap.Error(err))
	}

	h.establish(w, r, ev)
}

// establish turns a successful auth event into a session: cookie,
// resolved user, restored view.
func (h *Handler) establish(w http.ResponseWriter, r *http.Request, ev *identity.AuthEvent) {
	u, err := h.Resolver.Resolve(r.Context(), ev)
	if err != nil || u == nil {
		// Identity resolution failure during login surfaces as "no
		// session": the user retries authentication.
		h.Log.Error("identity resolution failed during login", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, msgGeneric)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgGeneric)
		return
	}

	router := session.NewRouter(h.ViewCodec.NewCookieViewStore(w, r, h.Secure, h.Log), h.Log)
	router.Begin()
	view := router.Resolve(u)

	httpjson.Write(w, http.StatusOK, sessionResponse{User: u, View: view})
}

func (h *Handler) writeProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrBadCredentials):
		httpjson.Error(w, http.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, accounts.ErrAccountExists):
		httpjson.Error(w, http.StatusConflict, msgAccountExists)
	case errors.Is(err, accounts.ErrWeakPassword):
		httpjson.Error(w, http.StatusBadRequest, msgWeakPassword)
	case errors.Is(err, accounts.ErrSignupDisabled):
		httpjson.Error(w, http.StatusForbidden, msgSignupDisabled)
	default:
		h.Log.Error("auth provider failure", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgGeneric)
	}
}
