package comment

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, c Comment) error
	ListByEnquiry(ctx context.Context, enquiryID string) ([]Comment, error)
	CountByEnquiry(ctx context.Context, enquiryID string) (int64, error)
	MaxNumberByEnquiry(ctx context.Context, enquiryID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByEnquiry(ctx context.Context, enquiryID string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, c Comment) error {
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *MongoRepository) ListByEnquiry(ctx context.Context, enquiryID string) ([]Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "commentNumber", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"enquiryId": enquiryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Comment, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) CountByEnquiry(ctx context.Context, enquiryID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"enquiryId": enquiryID})
}

func (r *MongoRepository) MaxNumberByEnquiry(ctx context.Context, enquiryID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "commentNumber", Value: -1}})
	var last Comment
	err := r.col.FindOne(ctx, bson.M{"enquiryId": enquiryID}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.CommentNumber, nil
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

func (r *MongoRepository) DeleteByEnquiry(ctx context.Context, enquiryID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"enquiryId": enquiryID})
	return err
}
