package ports

import (
	"context"
	"time"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (domain.AccountID, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// PasswordHasher hashes and verifies credentials. A mismatch is (false, nil).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(id domain.AccountID, ttl time.Duration) (string, error)
}

// TokenVerifier decodes session tokens. It does not check expiry.
type TokenVerifier interface {
	Verify(token string) (domain.Session, error)
}
