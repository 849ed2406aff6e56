package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oashtari/question-and-answer/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db, coll: db.Collection(collectionAccounts)}
}

type accountDoc struct {
	ID        int64  `bson:"_id"`
	Email     string `bson:"email"`
	Password  string `bson:"password"`
	CreatedOn int64  `bson:"created_on"`
}

// Create relies on the unique email index for duplicate detection. A burned
// sequence number on conflict is acceptable.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (domain.AccountID, error) {
	id, err := nextID(ctx, r.db, collectionAccounts)
	if err != nil {
		return 0, domain.E(domain.KindQuery, "mongo.CreateAccount", err)
	}

	doc := accountDoc{
		ID:        id,
		Email:     account.Email,
		Password:  account.PasswordHash,
		CreatedOn: time.Now().Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return 0, classify("mongo.CreateAccount", err)
	}
	return domain.AccountID(id), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, classify("mongo.FindAccount", err)
	}

	id := domain.AccountID(doc.ID)
	return &domain.Account{ID: &id, Email: doc.Email, PasswordHash: doc.Password}, nil
}
