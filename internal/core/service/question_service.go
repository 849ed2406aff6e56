package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
)

// QuestionService runs the question workflows: ownership, then moderation,
// then the store.
type QuestionService struct {
	repo      ports.QuestionRepository
	moderator ports.Moderator
	log       zerolog.Logger
}

func NewQuestionService(repo ports.QuestionRepository, moderator ports.Moderator, log zerolog.Logger) *QuestionService {
	return &QuestionService{repo: repo, moderator: moderator, log: log}
}

func (s *QuestionService) List(ctx context.Context, page domain.Pagination) ([]domain.Question, error) {
	return s.repo.List(ctx, page)
}

func (s *QuestionService) Create(ctx context.Context, caller domain.AccountID, q domain.NewQuestion) (*domain.Question, error) {
	clean, err := s.moderate(ctx, q)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, clean, caller)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("question_id", int64(created.ID)).Int64("account_id", int64(caller)).Msg("question created")
	return created, nil
}

// Update replaces a question's text. The ownership check runs before any
// moderation call, so a non-owner never costs a provider round trip.
func (s *QuestionService) Update(ctx context.Context, caller domain.AccountID, id domain.QuestionID, q domain.NewQuestion) (*domain.Question, error) {
	if err := s.authorize(ctx, caller, id, "question.Update"); err != nil {
		return nil, err
	}

	clean, err := s.moderate(ctx, q)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, clean, caller)
}

func (s *QuestionService) Delete(ctx context.Context, caller domain.AccountID, id domain.QuestionID) error {
	if err := s.authorize(ctx, caller, id, "question.Delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("question_id", int64(id)).Int64("account_id", int64(caller)).Msg("question deleted")
	return nil
}

// authorize maps "not the owner" to KindUnauthorized. A question that does not
// exist has no owner, so it is reported the same way.
func (s *QuestionService) authorize(ctx context.Context, caller domain.AccountID, id domain.QuestionID, op string) error {
	owner, err := isOwner(ctx, s.repo, caller, id)
	if err != nil {
		return err
	}
	if !owner {
		return domain.E(domain.KindUnauthorized, op, nil)
	}
	return nil
}

// isOwner reports whether caller created question id.
func isOwner(ctx context.Context, repo ports.QuestionRepository, caller domain.AccountID, id domain.QuestionID) (bool, error) {
	owner, err := repo.OwnerOf(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == caller, nil
}

// moderate checks title and content concurrently. Both must pass; the first
// failure cancels the other call.
func (s *QuestionService) moderate(ctx context.Context, q domain.NewQuestion) (domain.NewQuestion, error) {
	var title, content string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = s.moderator.Check(gctx, q.Title)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = s.moderator.Check(gctx, q.Content)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.NewQuestion{}, err
	}

	return domain.NewQuestion{Title: title, Content: content, Tags: q.Tags}, nil
}
