package enquiry

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, e Enquiry) error
	GetByID(ctx context.Context, id string) (Enquiry, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Enquiry, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	All(ctx context.Context) ([]Enquiry, error)
	Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Enquiry, error)
	ApplyWorkflow(ctx context.Context, id string, patch WorkflowPatch, now time.Time) (Enquiry, error)
	SetAssignee(ctx context.Context, id string, ref *AssigneeRef, now time.Time) (Enquiry, error)
	CountActiveByAssignee(ctx context.Context, salesPersonID string) (int64, error)
	ListFollowUpsBetween(ctx context.Context, salesPersonID string, from, to time.Time) ([]Enquiry, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, e Enquiry) error {
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Enquiry, error) {
	var e Enquiry
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return Enquiry{}, err
	}
	return e, nil
}

func (r *MongoRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Enquiry, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Enquiry, 0)
	for cursor.Next(ctx) {
		var e Enquiry
		if err := cursor.Decode(&e); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) All(ctx context.Context) ([]Enquiry, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Enquiry, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (Enquiry, error) {
	set := bson.M{"updatedAt": now}
	if req.CustomerName != nil {
		set["customerName"] = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		set["customerEmail"] = *req.CustomerEmail
	}
	if req.CustomerMobile != nil {
		set["customerMobile"] = *req.CustomerMobile
	}
	if req.PropertyType != nil {
		set["propertyType"] = *req.PropertyType
	}
	if req.BudgetRange != nil {
		set["budgetRange"] = *req.BudgetRange
	}
	if req.Source != nil {
		set["source"] = *req.Source
	}
	if req.Remarks != nil {
		set["remarks"] = *req.Remarks
	}
	if req.FollowUpDate != nil {
		set["followUpDate"] = *req.FollowUpDate
	}

	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) ApplyWorkflow(ctx context.Context, id string, patch WorkflowPatch, now time.Time) (Enquiry, error) {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Interest != nil {
		set["interest"] = *patch.Interest
	}
	if patch.InterestLevel != nil {
		set["interestLevel"] = *patch.InterestLevel
	}
	if patch.ColdReason != nil {
		set["coldReason"] = *patch.ColdReason
	}
	if patch.BookingProgress != nil {
		set["bookingProgress"] = *patch.BookingProgress
	}
	if patch.IsUnqualified != nil {
		set["isUnqualified"] = *patch.IsUnqualified
	}
	if patch.FollowUpDate != nil {
		set["followUpDate"] = *patch.FollowUpDate
	}
	if patch.Remarks != nil {
		set["remarks"] = *patch.Remarks
	}
	if patch.AssignedToCRMAt != nil {
		set["assignedToCRMAt"] = *patch.AssignedToCRMAt
	}
	if patch.ClearInterestLevel {
		unset["interestLevel"] = ""
	}
	if patch.ClearColdReason {
		unset["coldReason"] = ""
	}
	if patch.ClearBookingProgress {
		unset["bookingProgress"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoRepository) SetAssignee(ctx context.Context, id string, ref *AssigneeRef, now time.Time) (Enquiry, error) {
	update := bson.M{"$set": bson.M{"assignedTo": ref, "updatedAt": now}}
	if ref == nil {
		update = bson.M{
			"$set":   bson.M{"updatedAt": now},
			"$unset": bson.M{"assignedTo": ""},
		}
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoRepository) CountActiveByAssignee(ctx context.Context, salesPersonID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"assignedTo.id": salesPersonID,
		"status":        bson.M{"$nin": ClosedStatuses},
	})
}

// ListFollowUpsBetween returns enquiries whose follow-up falls inside the
// window, soonest first. salesPersonID narrows to one assignee when set.
func (r *MongoRepository) ListFollowUpsBetween(ctx context.Context, salesPersonID string, from, to time.Time) ([]Enquiry, error) {
	query := bson.M{"followUpDate": bson.M{"$gte": from, "$lte": to}}
	if salesPersonID != "" {
		query["assignedTo.id"] = salesPersonID
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "followUpDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Enquiry, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
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

func (r *MongoRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (Enquiry, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Enquiry
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Enquiry{}, err
	}
	return updated, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.InterestLevel != "" {
		query["interestLevel"] = filter.InterestLevel
	}
	if filter.SalesPersonID != "" {
		query["assignedTo.id"] = filter.SalesPersonID
	}
	if filter.UnassignedOnly {
		query["assignedTo"] = bson.M{"$exists": false}
	}
	if filter.ActiveOnly {
		query["isUnqualified"] = bson.M{"$ne": true}
		if filter.Status == "" {
			query["status"] = bson.M{"$nin": ClosedStatuses}
		}
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query["$or"] = bson.A{
			bson.M{"customerName": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"customerEmail": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"customerMobile": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return query
}
