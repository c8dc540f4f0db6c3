package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.uber.org/zap"
)

func newProvider(t *testing.T, signupEnabled bool) *LocalProvider {
	t.Helper()
	return NewLocal(testutil.NewFakeGateway(), "church.org", signupEnabled, zap.NewNop())
}

func TestCreateAccount_AndSignIn(t *testing.T) {
	p := newProvider(t, true)
	ctx := context.Background()

	ev, err := p.CreateAccount(ctx, "María G", "@Maria", "secret123")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if ev.SubjectID == "" {
		t.Error("expected a subject id")
	}
	if ev.Email != "maria@church.org" {
		t.Errorf("email: got %q, want maria@church.org", ev.Email)
	}

	got, err := p.SignIn(ctx, "maria", "secret123")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if got.SubjectID != ev.SubjectID {
		t.Errorf("subject: got %q, want %q", got.SubjectID, ev.SubjectID)
	}
	if got.DisplayName != "María G" {
		t.Errorf("display name: got %q, want %q", got.DisplayName, "María G")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	p := newProvider(t, true)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "Luis", "luis", "secret123"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	_, err := p.SignIn(ctx, "luis", "wrong-password")
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("error: got %v, want ErrBadCredentials", err)
	}
}

func TestSignIn_UnknownHandle(t *testing.T) {
	p := newProvider(t, true)

	_, err := p.SignIn(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("error: got %v, want ErrBadCredentials", err)
	}
}

func TestCreateAccount_Duplicate(t *testing.T) {
	p := newProvider(t, true)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "Ana", "ana", "secret123"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	_, err := p.CreateAccount(ctx, "Other Ana", "Ana", "different456")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("error: got %v, want ErrAccountExists", err)
	}
}

func TestCreateAccount_WeakPassword(t *testing.T) {
	p := newProvider(t, true)

	_, err := p.CreateAccount(context.Background(), "Ana", "ana", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("error: got %v, want ErrWeakPassword", err)
	}
}

func TestCreateAccount_SignupDisabled(t *testing.T) {
	p := newProvider(t, false)

	_, err := p.CreateAccount(context.Background(), "Ana", "ana", "secret123")
	if !errors.Is(err, ErrSignupDisabled) {
		t.Errorf("error: got %v, want ErrSignupDisabled", err)
	}
}
