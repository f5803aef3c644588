package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ordersCollection     = "orders"
	productsCollection   = "products"
	categoriesCollection = "categories"
	usersCollection      = "users"
	countersCollection   = "counters"
	attemptsCollection   = "login_attempts"

	orderCounterID = "orders"
)

type MongoConfig struct {
	URI      string
	Database string
	Username string
	Password string
}

type MongoStore struct {
	client     *mongo.Client
	orders     *mongo.Collection
	products   *mongo.Collection
	categories *mongo.Collection
	users      *mongo.Collection
	counters   *mongo.Collection
	attempts   *mongo.Collection
	log        *slog.Logger
}

func NewMongoStore(ctx context.Context, cfg MongoConfig, logger *slog.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" || cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			AuthSource: cfg.Database,
			Username:   cfg.Username,
			Password:   cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to mongodb", "database", cfg.Database)

	db := client.Database(cfg.Database)
	return &MongoStore{
		client:     client,
		orders:     db.Collection(ordersCollection),
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
		users:      db.Collection(usersCollection),
		counters:   db.Collection(countersCollection),
		attempts:   db.Collection(attemptsCollection),
		log:        logger,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes and seeds the order
// sequence so numbering continues after the highest existing count.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.orders: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "customer.email", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		s.products: {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		s.categories: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.attempts: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for coll, specs := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}

	existing, err := s.orders.EstimatedDocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	_, err = s.counters.UpdateOne(ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$max": bson.M{"seq": existing}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed order counter: %w", err)
	}

	s.log.Debug("mongo indexes ensured", "orders", existing)
	return nil
}

func containsPattern(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	items := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

func findOptions(page Page, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit)).SetSkip(int64(page.Skip()))
	}
	return opts
}

func now() time.Time {
	return time.Now().UTC()
}
