package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

// Register stores a new account with a hashed password. The plaintext never
// reaches the repository.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.AccountID, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, &domain.Account{Email: email, PasswordHash: digest})
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("account_id", int64(id)).Msg("account registered")
	return id, nil
}

// Login exchanges valid credentials for a session token. An unknown email and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.E(domain.KindWrongPassword, "auth.Login", err)
		}
		return "", err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.E(domain.KindWrongPassword, "auth.Login", nil)
	}
	if account.ID == nil {
		return "", domain.E(domain.KindQuery, "auth.Login", errors.New("account has no id"))
	}

	token, err := s.tokens.Issue(*account.ID, s.tokenTTL)
	if err != nil {
		return "", domain.E(domain.KindHashing, "auth.Login", err)
	}

	s.log.Debug().Int64("account_id", int64(*account.ID)).Msg("session issued")
	return token, nil
}
