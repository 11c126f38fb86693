package salesactivity

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, a SalesActivity) error
	GetByID(ctx context.Context, id string) (SalesActivity, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]SalesActivity, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Recent(ctx context.Context, limit int64) ([]SalesActivity, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (SalesActivity, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, a SalesActivity) error {
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (SalesActivity, error) {
	var a SalesActivity
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return SalesActivity{}, err
	}
	return a, nil
}

// List returns activities newest-first by activityDate.
func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]SalesActivity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "activityDate", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, r.filterToBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]SalesActivity, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) Recent(ctx context.Context, limit int64) ([]SalesActivity, error) {
	return r.List(ctx, ListFilter{}, limit, 0)
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (SalesActivity, error) {
	set := bson.M{"updatedAt": now}
	if req.EnquiryID != nil {
		set["enquiryId"] = *req.EnquiryID
	}
	if req.SalesPersonID != nil {
		set["salesPersonId"] = *req.SalesPersonID
	}
	if req.ActivityType != nil {
		set["activityType"] = *req.ActivityType
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.ActivityDate != nil {
		set["activityDate"] = *req.ActivityDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated SalesActivity
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return SalesActivity{}, err
	}
	return updated, nil
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

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.EnquiryID != "" {
		query["enquiryId"] = filter.EnquiryID
	}
	if filter.SalesPersonID != "" {
		query["salesPersonId"] = filter.SalesPersonID
	}
	if filter.ActivityType != "" {
		query["activityType"] = filter.ActivityType
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query["notes"] = bson.M{"$regex": pattern, "$options": "i"}
	}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["activityDate"] = dateRange
	}
	return query
}
