package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/infrastructure/db/memory"
)

func newAuth(t *testing.T, hasher stubHasher, issuer *stubIssuer) (*AuthService, *memory.Accounts) {
	t.Helper()
	accounts := memory.New().Accounts()
	return NewAuthService(accounts, hasher, issuer, time.Hour, zerolog.Nop()), accounts
}

func TestAuthService_Register_StoresDigestOnly(t *testing.T) {
	svc, accounts := newAuth(t, stubHasher{}, &stubIssuer{})

	id, err := svc.Register(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	stored, err := accounts.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash != "hashed:pass123" {
		t.Fatalf("expected digest to be stored, got %q", stored.PasswordHash)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuth(t, stubHasher{}, &stubIssuer{})

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass")
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass2"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	svc, accounts := newAuth(t, stubHasher{hashErr: domain.E(domain.KindHashing, "test", nil)}, &stubIssuer{})

	if _, err := svc.Register(context.Background(), "c@example.com", "pass"); !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
	if _, err := accounts.FindByEmail(context.Background(), "c@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("account must not be stored when hashing fails: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	issuer := &stubIssuer{}
	svc, _ := newAuth(t, stubHasher{}, issuer)

	id, err := svc.Register(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if issuer.last == nil || issuer.last.id != id || issuer.last.ttl != time.Hour {
		t.Fatalf("unexpected issue call: %+v", issuer.last)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newAuth(t, stubHasher{}, &stubIssuer{})
	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass")

	_, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	for _, err := range []error{wrongPass, unknown} {
		if !errors.Is(err, domain.ErrWrongPassword) {
			t.Fatalf("expected ErrWrongPassword, got %v", err)
		}
	}
}

func TestAuthService_Login_UnreadableDigest(t *testing.T) {
	svc, _ := newAuth(t, stubHasher{verifyErr: domain.E(domain.KindHashing, "test", nil)}, &stubIssuer{})
	_, _ = svc.Register(context.Background(), "erin@example.com", "pass")

	if _, err := svc.Login(context.Background(), "erin@example.com", "pass"); !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(memory.New().Accounts(), stubHasher{}, &stubIssuer{}, 0, zerolog.Nop())
	if svc.tokenTTL != DefaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", svc.tokenTTL)
	}
}
