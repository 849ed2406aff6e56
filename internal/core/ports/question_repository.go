package ports

import (
	"context"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// QuestionRepository persists questions. Every mutation receives text that
// has already been moderated.
type QuestionRepository interface {
	List(ctx context.Context, page domain.Pagination) ([]domain.Question, error)
	Create(ctx context.Context, q domain.NewQuestion, owner domain.AccountID) (*domain.Question, error)
	Update(ctx context.Context, id domain.QuestionID, q domain.NewQuestion, owner domain.AccountID) (*domain.Question, error)
	Delete(ctx context.Context, id domain.QuestionID) error
	// OwnerOf returns the account recorded as the question's creator.
	OwnerOf(ctx context.Context, id domain.QuestionID) (domain.AccountID, error)
}

// AnswerRepository persists answers.
type AnswerRepository interface {
	Create(ctx context.Context, a domain.NewAnswer, author domain.AccountID) (*domain.Answer, error)
}
