// internal/app/features/login/handler_test.go
package login

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/system/accounts"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/identity"
	"github.com/dalemusser/ministryhub/internal/app/system/session"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, signupEnabled bool) (*Handler, *testutil.FakeGateway) {
	t.Helper()
	log := zap.NewNop()
	gw := testutil.NewFakeGateway()

	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "mh-test", "", time.Hour, false, log)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	return NewHandler(
		accounts.NewLocal(gw, "ministryhub.local", signupEnabled, log),
		identity.New(gw, log),
		sessionMgr,
		session.NewViewCodec("0123456789abcdef0123456789abcdef"),
		gw,
		false,
		log,
	), gw
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegisterCreatesRosterEntryAndSignsIn(t *testing.T) {
	h, gw := newTestHandler(t, true)

	rec := post(t, h.HandleRegister,
		`{"name":"Ana Lima","identifier":"ana","password":"secret1","role":"leader"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("register status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		User *models.User `json:"user"`
		View string       `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil {
		t.Fatal("register: got nil user")
	}
	if resp.User.Role != models.RoleLeader {
		t.Errorf("role: got %q, want %q", resp.User.Role, models.RoleLeader)
	}
	if resp.User.Handle != "ana" {
		t.Errorf("handle: got %q, want %q", resp.User.Handle, "ana")
	}
	if resp.View != string(session.ViewDashboard) {
		t.Errorf("view: got %q, want %q", resp.View, session.ViewDashboard)
	}
	if gw.Count("users") != 1 {
		t.Errorf("roster docs: got %d, want 1", gw.Count("users"))
	}

	var sawAuth bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "mh-test" && c.Value != "" {
			sawAuth = true
		}
	}
	if !sawAuth {
		t.Error("register did not set the auth session cookie")
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	h, _ := newTestHandler(t, true)

	if rec := post(t, h.HandleRegister,
		`{"name":"Ana","identifier":"ana","password":"secret1","role":"musician"}`); rec.Code != http.StatusOK {
		t.Fatalf("first register: got %d, want %d", rec.Code, http.StatusOK)
	}

	rec := post(t, h.HandleRegister,
		`{"name":"Other Ana","identifier":"ana","password":"secret2","role":"musician"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status: got %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), msgAccountExists) {
		t.Errorf("duplicate register body: got %s, want message %q", rec.Body.String(), msgAccountExists)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := post(t, h.HandleRegister,
		`{"name":"Ana","identifier":"ana","password":"abc","role":"musician"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("weak password status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegisterDisabled(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := post(t, h.HandleRegister,
		`{"name":"Ana","identifier":"ana","password":"secret1","role":"musician"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("signup disabled status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t, true)

	if rec := post(t, h.HandleRegister,
		`{"name":"Ana","identifier":"ana","password":"secret1","role":"musician"}`); rec.Code != http.StatusOK {
		t.Fatalf("register: got %d, want %d", rec.Code, http.StatusOK)
	}

	rec := post(t, h.HandleSignIn, `{"identifier":"ana","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), msgBadCredentials) {
		t.Errorf("wrong password body: got %s, want message %q", rec.Body.String(), msgBadCredentials)
	}
}

func TestSignInUnknownHandle(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := post(t, h.HandleSignIn, `{"identifier":"nobody","password":"secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown handle status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSignInRoundTrip(t *testing.T) {
	h, _ := newTestHandler(t, true)

	if rec := post(t, h.HandleRegister,
		`{"name":"Bia","identifier":"bia","password":"secret1","role":"musician"}`); rec.Code != http.StatusOK {
		t.Fatalf("register: got %d, want %d", rec.Code, http.StatusOK)
	}

	rec := post(t, h.HandleSignIn, `{"identifier":"bia","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		User *models.User `json:"user"`
		View string       `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.Name != "Bia" {
		t.Errorf("user: got %+v, want name Bia", resp.User)
	}
	if resp.View != string(session.ViewMusicianHome) {
		t.Errorf("view: got %q, want %q", resp.View, session.ViewMusicianHome)
	}
}
