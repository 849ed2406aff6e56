package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
)

// AnswerService moderates and stores answers.
type AnswerService struct {
	repo      ports.AnswerRepository
	moderator ports.Moderator
	log       zerolog.Logger
}

func NewAnswerService(repo ports.AnswerRepository, moderator ports.Moderator, log zerolog.Logger) *AnswerService {
	return &AnswerService{repo: repo, moderator: moderator, log: log}
}

func (s *AnswerService) Create(ctx context.Context, caller domain.AccountID, a domain.NewAnswer) (*domain.Answer, error) {
	content, err := s.moderator.Check(ctx, a.Content)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, domain.NewAnswer{Content: content, QuestionID: a.QuestionID}, caller)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("answer_id", int64(created.ID)).
		Int64("question_id", int64(created.QuestionID)).
		Int64("account_id", int64(caller)).
		Msg("answer created")
	return created, nil
}
