package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// QuestionRepository implements ports.QuestionRepository using MongoDB.
type QuestionRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{db: db, col: db.Collection(collectionQuestions)}
}

type questionDoc struct {
	ID        int64    `bson:"_id"`
	Title     string   `bson:"title"`
	Content   string   `bson:"content"`
	Tags      []string `bson:"tags,omitempty"`
	AccountID int64    `bson:"account_id"`
}

func (d questionDoc) toDomain() domain.Question {
	return domain.Question{
		ID:        domain.QuestionID(d.ID),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		AccountID: domain.AccountID(d.AccountID),
	}
}

// List returns questions in id order.
func (r *QuestionRepository) List(ctx context.Context, page domain.Pagination) ([]domain.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset))
	if page.Limit != nil {
		if *page.Limit == 0 {
			return []domain.Question{}, nil
		}
		opts.SetLimit(int64(*page.Limit))
	}

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("mongo.ListQuestions", err)
	}
	defer cur.Close(ctx)

	out := []domain.Question{}
	for cur.Next(ctx) {
		var doc questionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, classify("mongo.ListQuestions", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, classify("mongo.ListQuestions", err)
	}
	return out, nil
}

func (r *QuestionRepository) Create(ctx context.Context, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	id, err := nextID(ctx, r.db, collectionQuestions)
	if err != nil {
		return nil, domain.E(domain.KindQuery, "mongo.CreateQuestion", err)
	}

	doc := questionDoc{
		ID:        id,
		Title:     nq.Title,
		Content:   nq.Content,
		Tags:      nq.Tags,
		AccountID: int64(owner),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, classify("mongo.CreateQuestion", err)
	}

	q := doc.toDomain()
	return &q, nil
}

// Update rewrites a question only while owner still owns it.
func (r *QuestionRepository) Update(ctx context.Context, id domain.QuestionID, nq domain.NewQuestion, owner domain.AccountID) (*domain.Question, error) {
	set := bson.M{"title": nq.Title, "content": nq.Content}
	update := bson.M{"$set": set}
	if len(nq.Tags) > 0 {
		set["tags"] = nq.Tags
	} else {
		update["$unset"] = bson.M{"tags": ""}
	}

	filter := bson.M{"_id": int64(id), "account_id": int64(owner)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc questionDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, classify("mongo.UpdateQuestion", err)
	}

	q := doc.toDomain()
	return &q, nil
}

// Delete removes the question and its answers.
func (r *QuestionRepository) Delete(ctx context.Context, id domain.QuestionID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return classify("mongo.DeleteQuestion", err)
	}
	if res.DeletedCount == 0 {
		return classify("mongo.DeleteQuestion", mongo.ErrNoDocuments)
	}

	if _, err := r.db.Collection(collectionAnswers).DeleteMany(ctx, bson.M{"question_id": int64(id)}); err != nil {
		return classify("mongo.DeleteQuestion", err)
	}
	return nil
}

func (r *QuestionRepository) OwnerOf(ctx context.Context, id domain.QuestionID) (domain.AccountID, error) {
	opts := options.FindOne().SetProjection(bson.M{"account_id": 1})

	var doc questionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}, opts).Decode(&doc); err != nil {
		return 0, classify("mongo.QuestionOwner", err)
	}
	return domain.AccountID(doc.AccountID), nil
}
