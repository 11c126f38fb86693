package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/auth"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/config"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/db"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/users"
)

type seedSalesPerson struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	team := []seedSalesPerson{
		{Name: "Rajesh Kumar", Email: "rajesh.kumar@example.com", Mobile: "9876543210", Designation: "Senior Sales Executive"},
		{Name: "Priya Sharma", Email: "priya.sharma@example.com", Mobile: "9876543211", Designation: "Sales Executive"},
		{Name: "Amit Patel", Email: "amit.patel@example.com", Mobile: "9876543212", Designation: "Sales Executive"},
		{Name: "Sneha Reddy", Email: "sneha.reddy@example.com", Mobile: "9876543213", Designation: "Sales Executive"},
	}

	now := time.Now().UTC()
	for _, sp := range team {
		filter := bson.M{"email": sp.Email}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"name":        sp.Name,
				"email":       sp.Email,
				"mobile":      sp.Mobile,
				"designation": sp.Designation,
				"available":   true,
				"createdAt":   now,
				"updatedAt":   now,
			},
		}
		if _, err := cols.SalesPersons.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", sp.Name, err)
		}
	}

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Println("seed admin: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD missing, skipping")
		log.Println("seed completed")
		return
	}

	if err := seedAdmin(ctx, cols, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Fatalf("seed admin error: %v", err)
	}

	log.Println("seed completed")
}

func seedAdmin(ctx context.Context, cols *db.Collections, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"name":         "Super Admin",
			"email":        email,
			"passwordHash": hash,
			"role":         users.RoleSuperAdmin,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}
