package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func userFilter(q UserQuery) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"phone": pattern},
		}
	}
	return filter
}

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.users.InsertOne(ctx, user)
	return mapMongoError(err)
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	return user, mapMongoError(err)
}

func (s *MongoStore) GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, mapMongoError(err)
}

func (s *MongoStore) ListUsers(ctx context.Context, q UserQuery, page Page) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, userFilter(q), findOptions(page, newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.User](ctx, cursor)
}

func (s *MongoStore) CountUsers(ctx context.Context, q UserQuery) (int64, error) {
	return s.users.CountDocuments(ctx, userFilter(q))
}

func (s *MongoStore) ReplaceUser(ctx context.Context, user models.User) error {
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type attemptDoc struct {
	Key       string    `bson:"_id"`
	Count     int       `bson:"count"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// HitAttempt increments the live window for key, or opens a new one when the
// previous window has lapsed. The TTL index on expiresAt removes stale windows.
func (s *MongoStore) HitAttempt(ctx context.Context, key string, window time.Duration) (int, error) {
	current := now()

	var doc attemptDoc
	err := s.attempts.FindOneAndUpdate(ctx,
		bson.M{"_id": key, "expiresAt": bson.M{"$gt": current}},
		bson.M{"$inc": bson.M{"count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.Count, nil
	}
	if mapMongoError(err) != ErrNotFound {
		return 0, err
	}

	doc = attemptDoc{Key: key, Count: 1, ExpiresAt: current.Add(window)}
	_, err = s.attempts.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return 0, err
	}
	return doc.Count, nil
}

func (s *MongoStore) ResetAttempts(ctx context.Context, key string) error {
	_, err := s.attempts.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
