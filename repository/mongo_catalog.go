package repository

import (
	"context"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": q.IDs}
	}
	switch q.Stock {
	case StockOut:
		filter["stock"] = 0
	case StockLow:
		filter["stock"] = bson.M{"$gt": 0, "$lt": models.LowStockThreshold}
	}
	return filter
}

func (s *MongoStore) ListProducts(ctx context.Context, q ProductQuery, limit int) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, productFilter(q), findOptions(Page{Number: 1, Limit: limit}, newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](ctx, cursor)
}

func (s *MongoStore) CountProducts(ctx context.Context, q ProductQuery) (int64, error) {
	return s.products.CountDocuments(ctx, productFilter(q))
}

func (s *MongoStore) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	return product, mapMongoError(err)
}

func (s *MongoStore) InsertProduct(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := s.products.InsertOne(ctx, product)
	return mapMongoError(err)
}

func (s *MongoStore) ReplaceProduct(ctx context.Context, product models.Product) error {
	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListCategories(ctx context.Context, status string) ([]models.Category, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.categories.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Category](ctx, cursor)
}

func (s *MongoStore) GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var category models.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	return category, mapMongoError(err)
}

func (s *MongoStore) CategoryExists(ctx context.Context, name, slug string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"name": name}, bson.M{"slug": slug}}}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := s.categories.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *MongoStore) InsertCategory(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if category.Products == nil {
		category.Products = []primitive.ObjectID{}
	}
	_, err := s.categories.InsertOne(ctx, category)
	return mapMongoError(err)
}

func (s *MongoStore) ReplaceCategory(ctx context.Context, category models.Category) error {
	res, err := s.categories.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
