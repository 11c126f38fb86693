package salesperson

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, sp SalesPerson) error
	GetByID(ctx context.Context, id string) (SalesPerson, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int64) ([]SalesPerson, error)
	Count(ctx context.Context) (int64, error)
	ListAvailable(ctx context.Context) ([]SalesPerson, error)
	All(ctx context.Context) ([]SalesPerson, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (SalesPerson, error)
	SetAvailability(ctx context.Context, id string, available bool, now time.Time) (SalesPerson, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, sp SalesPerson) error {
	_, err := r.col.InsertOne(ctx, sp)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (SalesPerson, error) {
	var sp SalesPerson
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sp); err != nil {
		return SalesPerson{}, err
	}
	return sp, nil
}

func (r *MongoRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, limit, offset int64) ([]SalesPerson, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// ListAvailable returns available persons sorted by id so the auto-assign
// tie-break is deterministic.
func (r *MongoRepository) ListAvailable(ctx context.Context) ([]SalesPerson, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"available": true}, opts)
}

func (r *MongoRepository) All(ctx context.Context) ([]SalesPerson, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (SalesPerson, error) {
	set := bson.M{"updatedAt": now}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Mobile != nil {
		set["mobile"] = *req.Mobile
	}
	if req.Designation != nil {
		set["designation"] = *req.Designation
	}
	if req.Available != nil {
		set["available"] = *req.Available
	}

	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) SetAvailability(ctx context.Context, id string, available bool, now time.Time) (SalesPerson, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"available": available, "updatedAt": now}})
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]SalesPerson, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]SalesPerson, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (SalesPerson, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SalesPerson
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return SalesPerson{}, err
	}
	return updated, nil
}
