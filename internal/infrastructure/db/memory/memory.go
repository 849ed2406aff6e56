// Package memory is a process-local store with the same observable behaviour
// as the postgres store. It backs STORE_DRIVER=memory and API tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// Store holds every table behind one lock.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	questions map[domain.QuestionID]domain.Question
	answers   map[domain.AnswerID]domain.Answer

	lastAccount  domain.AccountID
	lastQuestion domain.QuestionID
	lastAnswer   domain.AnswerID
}

func New() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		questions: make(map[domain.QuestionID]domain.Question),
		answers:   make(map[domain.AnswerID]domain.Answer),
	}
}

// Accounts implements ports.AccountRepository.
type Accounts struct{ s *Store }

// Questions implements ports.QuestionRepository.
type Questions struct{ s *Store }

// Answers implements ports.AnswerRepository.
type Answers struct{ s *Store }

func (s *Store) Accounts() *Accounts   { return &Accounts{s} }
func (s *Store) Questions() *Questions { return &Questions{s} }
func (s *Store) Answers() *Answers     { return &Answers{s} }

func (r *Accounts) Create(_ context.Context, account *domain.Account) (domain.AccountID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[account.Email]; ok {
		return 0, domain.E(domain.KindConflict, "memory.CreateAccount", fmt.Errorf("email %q taken", account.Email))
	}

	r.s.lastAccount++
	id := r.s.lastAccount
	r.s.accounts[account.Email] = domain.Account{ID: &id, Email: account.Email, PasswordHash: account.PasswordHash}
	return id, nil
}

func (r *Accounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[email]
	if !ok {
		return nil, domain.E(domain.KindQuery, "memory.FindAccount", domain.ErrNotFound)
	}
	id := *a.ID
	a.ID = &id
	return &a, nil
}

func (r *Questions) List(_ context.Context, page domain.Pagination) ([]domain.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]domain.QuestionID, 0, len(r.s.questions))
	for id := range r.s.questions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start := min(page.Offset, len(ids))
	end := len(ids)
	if l := page.Limit; l != nil && *l < end-start {
		end = start + *l
	}

	out := make([]domain.Question, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, cloneQuestion(r.s.questions[id]))
	}
	return out, nil
}

func (r *Questions) Create(_ context.Context, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastQuestion++
	q := domain.Question{
		ID:        r.s.lastQuestion,
		Title:     nq.Title,
		Content:   nq.Content,
		Tags:      slices.Clone(nq.Tags),
		AccountID: owner,
	}
	r.s.questions[q.ID] = q

	out := cloneQuestion(q)
	return &out, nil
}

func (r *Questions) Update(_ context.Context, id domain.QuestionID, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q, ok := r.s.questions[id]
	if !ok || q.AccountID != owner {
		return nil, domain.E(domain.KindQuery, "memory.UpdateQuestion", domain.ErrNotFound)
	}

	q.Title, q.Content, q.Tags = nq.Title, nq.Content, slices.Clone(nq.Tags)
	r.s.questions[id] = q

	out := cloneQuestion(q)
	return &out, nil
}

// Delete removes the question and its answers.
func (r *Questions) Delete(_ context.Context, id domain.QuestionID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[id]; !ok {
		return domain.E(domain.KindQuery, "memory.DeleteQuestion", domain.ErrNotFound)
	}
	delete(r.s.questions, id)
	for aid, a := range r.s.answers {
		if a.QuestionID == id {
			delete(r.s.answers, aid)
		}
	}
	return nil
}

func (r *Questions) OwnerOf(_ context.Context, id domain.QuestionID) (domain.AccountID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	if !ok {
		return 0, domain.E(domain.KindQuery, "memory.QuestionOwner", domain.ErrNotFound)
	}
	return q.AccountID, nil
}

func (r *Answers) Create(_ context.Context, na domain.NewAnswer, author domain.AccountID) (*domain.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[na.QuestionID]; !ok {
		return nil, domain.E(domain.KindQuery, "memory.CreateAnswer", fmt.Errorf("question %d: %w", na.QuestionID, domain.ErrNotFound))
	}

	r.s.lastAnswer++
	a := domain.Answer{ID: r.s.lastAnswer, Content: na.Content, QuestionID: na.QuestionID, AccountID: author}
	r.s.answers[a.ID] = a
	return &a, nil
}

// AnswersFor returns the stored answers of a question in id order.
func (s *Store) AnswersFor(id domain.QuestionID) []domain.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Answer
	for _, a := range s.answers {
		if a.QuestionID == id {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.Answer) int { return int(a.ID - b.ID) })
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}
