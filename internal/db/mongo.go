package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Enquiries       *mongo.Collection
	SalesPersons    *mongo.Collection
	Comments        *mongo.Collection
	SalesActivities *mongo.Collection
	Users           *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Enquiries:       db.Collection("enquiries"),
		SalesPersons:    db.Collection("sales_persons"),
		Comments:        db.Collection("comments"),
		SalesActivities: db.Collection("sales_activities"),
		Users:           db.Collection("users"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Enquiries.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assignedTo.id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "interestLevel", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "followUpDate", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.SalesPersons.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "available", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Comments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "enquiryId", Value: 1}, {Key: "commentNumber", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.SalesActivities.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "enquiryId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "salesPersonId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "activityDate", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	return nil
}
