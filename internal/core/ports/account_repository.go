package ports

import (
	"context"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AccountRepository is the identity store boundary.
type AccountRepository interface {
	// Create inserts the account and returns the store-assigned id.
	// A duplicate email yields a domain.KindConflict error.
	Create(ctx context.Context, account *domain.Account) (domain.AccountID, error)
	// FindByEmail yields a domain.KindQuery error wrapping domain.ErrNotFound
	// when no account has that email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}
