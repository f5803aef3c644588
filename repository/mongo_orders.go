package repository

import (
	"context"

	"github.com/Kariqs/tannaro-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func orderFilter(q OrderQuery) bson.M {
	filter := bson.M{}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}
	if q.Email != "" {
		filter["customer.email"] = q.Email
	}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		filter["$or"] = bson.A{
			bson.M{"orderNumber": pattern},
			bson.M{"customer.email": pattern},
			bson.M{"customer.firstName": pattern},
			bson.M{"customer.lastName": pattern},
			bson.M{"customer.phone": pattern},
		}
	}
	return filter
}

func (s *MongoStore) NextOrderNumber(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, mapMongoError(err)
	}
	return counter.Seq, nil
}

func (s *MongoStore) InsertOrder(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := s.orders.InsertOne(ctx, order)
	return mapMongoError(err)
}

func (s *MongoStore) GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	return order, mapMongoError(err)
}

func (s *MongoStore) ListOrders(ctx context.Context, q OrderQuery, page Page) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, orderFilter(q), findOptions(page, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Order](ctx, cursor)
}

func (s *MongoStore) CountOrders(ctx context.Context, q OrderQuery) (int64, error) {
	return s.orders.CountDocuments(ctx, orderFilter(q))
}

func (s *MongoStore) SumOrderTotals(ctx context.Context, q OrderQuery) (float64, error) {
	pipeline := bson.A{
		bson.M{"$match": orderFilter(q)},
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}},
	}
	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	results, err := decodeAll[struct {
		Total float64 `bson:"total"`
	}](ctx, cursor)
	if err != nil || len(results) == 0 {
		return 0, err
	}
	return results[0].Total, nil
}

func (s *MongoStore) UpdateOrder(ctx context.Context, id primitive.ObjectID, update OrderUpdate) (models.Order, error) {
	set := bson.M{"updatedAt": update.UpdatedAt}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	var order models.Order
	err := s.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	return order, mapMongoError(err)
}
