package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Moderator stub
// ---------------------------------------------------------------------------

type stubModerator struct {
	calls atomic.Int32
	check func(ctx context.Context, text string) (string, error)
}

// uppercase "cleans" text by upper-casing it so tests can tell moderated
// text from raw input.
func uppercase() *stubModerator {
	return &stubModerator{check: func(_ context.Context, text string) (string, error) {
		return strings.ToUpper(text), nil
	}}
}

func (m *stubModerator) Check(ctx context.Context, text string) (string, error) {
	m.calls.Add(1)
	return m.check(ctx, text)
}

// ---------------------------------------------------------------------------
// Credential and token stubs
// ---------------------------------------------------------------------------

type stubHasher struct {
	hashErr   error
	verifyErr error
}

func (h stubHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h stubHasher) Verify(plain, digest string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return digest == "hashed:"+plain, nil
}

type issued struct {
	id  domain.AccountID
	ttl time.Duration
}

type stubIssuer struct {
	last *issued
	err  error
}

func (i *stubIssuer) Issue(id domain.AccountID, ttl time.Duration) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	i.last = &issued{id: id, ttl: ttl}
	return fmt.Sprintf("token-%d", id), nil
}

// ---------------------------------------------------------------------------
// Repository stub that fails every call
// ---------------------------------------------------------------------------

var errStore = errors.New("store down")

type failingQuestionRepo struct {
	created bool
}

func (r *failingQuestionRepo) List(context.Context, domain.Pagination) ([]domain.Question, error) {
	return nil, domain.E(domain.KindQuery, "test", errStore)
}

func (r *failingQuestionRepo) Create(context.Context, domain.NewQuestion, domain.AccountID) (*domain.Question, error) {
	r.created = true
	return nil, domain.E(domain.KindQuery, "test", errStore)
}

func (r *failingQuestionRepo) Update(context.Context, domain.QuestionID, domain.NewQuestion, domain.AccountID) (*domain.Question, error) {
	return nil, domain.E(domain.KindQuery, "test", errStore)
}

func (r *failingQuestionRepo) Delete(context.Context, domain.QuestionID) error {
	return domain.E(domain.KindQuery, "test", errStore)
}

func (r *failingQuestionRepo) OwnerOf(context.Context, domain.QuestionID) (domain.AccountID, error) {
	return 0, domain.E(domain.KindQuery, "test", errStore)
}
