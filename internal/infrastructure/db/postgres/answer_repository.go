package postgres

import (
	"context"
	"database/sql"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AnswerRepository implements ports.AnswerRepository.
type AnswerRepository struct {
	db *sql.DB
}

func NewAnswerRepository(db *sql.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create stores an answer. A question id that does not exist fails the
// foreign key and is reported as a query failure.
func (r *AnswerRepository) Create(ctx context.Context, na domain.NewAnswer, author domain.AccountID) (*domain.Answer, error) {
	query :=
		`INSERT INTO answers (content, corresponding_question, account_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, content, corresponding_question, account_id`

	var a domain.Answer
	err := r.db.QueryRowContext(ctx, query, na.Content, na.QuestionID, author).
		Scan(&a.ID, &a.Content, &a.QuestionID, &a.AccountID)
	if err != nil {
		return nil, classify("postgres.CreateAnswer", err)
	}
	return &a, nil
}
