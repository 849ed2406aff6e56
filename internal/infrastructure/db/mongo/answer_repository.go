package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AnswerRepository implements ports.AnswerRepository using MongoDB.
type AnswerRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{db: db, col: db.Collection(collectionAnswers)}
}

type answerDoc struct {
	ID         int64  `bson:"_id"`
	Content    string `bson:"content"`
	QuestionID int64  `bson:"question_id"`
	AccountID  int64  `bson:"account_id"`
}

// Create stores an answer. Like the relational store, an answer to a missing
// question is a query failure.
func (r *AnswerRepository) Create(ctx context.Context, na domain.NewAnswer, author domain.AccountID) (*domain.Answer, error) {
	n, err := r.db.Collection(collectionQuestions).CountDocuments(ctx, bson.M{"_id": int64(na.QuestionID)})
	if err != nil {
		return nil, classify("mongo.CreateAnswer", err)
	}
	if n == 0 {
		return nil, domain.E(domain.KindQuery, "mongo.CreateAnswer", fmt.Errorf("question %d: %w", na.QuestionID, domain.ErrNotFound))
	}

	id, err := nextID(ctx, r.db, collectionAnswers)
	if err != nil {
		return nil, domain.E(domain.KindQuery, "mongo.CreateAnswer", err)
	}

	doc := answerDoc{
		ID:         id,
		Content:    na.Content,
		QuestionID: int64(na.QuestionID),
		AccountID:  int64(author),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, classify("mongo.CreateAnswer", err)
	}

	return &domain.Answer{
		ID:         domain.AnswerID(id),
		Content:    na.Content,
		QuestionID: na.QuestionID,
		AccountID:  author,
	}, nil
}
