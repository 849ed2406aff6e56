package ports

import (
	"context"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// Moderator checks free text with the moderation provider and returns the
// text to store in its place.
type Moderator interface {
	Check(ctx context.Context, text string) (string, error)
}

type QuestionService interface {
	List(ctx context.Context, page domain.Pagination) ([]domain.Question, error)
	Create(ctx context.Context, caller domain.AccountID, q domain.NewQuestion) (*domain.Question, error)
	Update(ctx context.Context, caller domain.AccountID, id domain.QuestionID, q domain.NewQuestion) (*domain.Question, error)
	Delete(ctx context.Context, caller domain.AccountID, id domain.QuestionID) error
}

type AnswerService interface {
	Create(ctx context.Context, caller domain.AccountID, a domain.NewAnswer) (*domain.Answer, error)
}
