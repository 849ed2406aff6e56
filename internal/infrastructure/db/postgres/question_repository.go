package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

const questionColumns = `id, title, content, tags, account_id`

// QuestionRepository implements ports.QuestionRepository. Tags are stored as
// a JSONB array; an empty tag list is stored as NULL.
type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns questions in id order. A nil limit is sent as NULL, which
// postgres treats as no limit.
func (r *QuestionRepository) List(ctx context.Context, page domain.Pagination) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions
		 ORDER BY id
		 LIMIT $1 OFFSET $2`

	var limit any
	if page.Limit != nil {
		limit = *page.Limit
	}

	rows, err := r.db.QueryContext(ctx, query, limit, page.Offset)
	if err != nil {
		return nil, classify("postgres.ListQuestions", err)
	}
	defer rows.Close()

	out := []domain.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, classify("postgres.ListQuestions", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("postgres.ListQuestions", err)
	}
	return out, nil
}

func (r *QuestionRepository) Create(ctx context.Context, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	query := `INSERT INTO questions (title, content, tags, account_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + questionColumns

	tags, err := encodeTags(nq.Tags)
	if err != nil {
		return nil, domain.E(domain.KindQuery, "postgres.CreateQuestion", err)
	}

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, nq.Title, nq.Content, tags, owner))
	if err != nil {
		return nil, classify("postgres.CreateQuestion", err)
	}
	return q, nil
}

// Update rewrites a question only while owner still owns it. No matching row
// yields a KindQuery error wrapping domain.ErrNotFound.
func (r *QuestionRepository) Update(ctx context.Context, id domain.QuestionID, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	query := `UPDATE questions
		 SET title = $1, content = $2, tags = $3
		 WHERE id = $4 AND account_id = $5
		 RETURNING ` + questionColumns

	tags, err := encodeTags(nq.Tags)
	if err != nil {
		return nil, domain.E(domain.KindQuery, "postgres.UpdateQuestion", err)
	}

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, nq.Title, nq.Content, tags, id, owner))
	if err != nil {
		return nil, classify("postgres.UpdateQuestion", err)
	}
	return q, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id domain.QuestionID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return classify("postgres.DeleteQuestion", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("postgres.DeleteQuestion", err)
	}
	if n == 0 {
		return classify("postgres.DeleteQuestion", sql.ErrNoRows)
	}
	return nil
}

func (r *QuestionRepository) OwnerOf(ctx context.Context, id domain.QuestionID) (domain.AccountID, error) {
	var owner domain.AccountID
	err := r.db.QueryRowContext(ctx, `SELECT account_id FROM questions WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		return 0, classify("postgres.QuestionOwner", err)
	}
	return owner, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(s scanner) (*domain.Question, error) {
	var (
		q    domain.Question
		tags []byte
	)
	if err := s.Scan(&q.ID, &q.Title, &q.Content, &tags, &q.AccountID); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &q.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &q, nil
}

func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
