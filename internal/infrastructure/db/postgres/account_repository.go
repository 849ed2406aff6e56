package postgres

import (
	"context"
	"database/sql"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (domain.AccountID, error) {
	query :=
		`INSERT INTO accounts (email, password)
		 VALUES ($1, $2)
		 RETURNING id`

	var id domain.AccountID
	if err := r.db.QueryRowContext(ctx, query, account.Email, account.PasswordHash).Scan(&id); err != nil {
		return 0, classify("postgres.CreateAccount", err)
	}
	return id, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query :=
		`SELECT id, email, password FROM accounts
		 WHERE email = $1`

	var (
		id domain.AccountID
		a  domain.Account
	)
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&id, &a.Email, &a.PasswordHash); err != nil {
		return nil, classify("postgres.FindAccount", err)
	}
	a.ID = &id
	return &a, nil
}
