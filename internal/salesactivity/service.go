package salesactivity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound            = errors.New("sales activity not found")
	ErrEnquiryNotFound     = errors.New("enquiry not found")
	ErrSalesPersonNotFound = errors.New("sales person not found")
	ErrInvalidActivityType = errors.New("invalid activity type")
)

// EnquiryChecker verifies a referenced enquiry exists before an activity is
// logged against it.
type EnquiryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SalesPersonChecker verifies a referenced sales person exists.
type SalesPersonChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo      Repository
	enquiries EnquiryChecker
	team      SalesPersonChecker
}

func NewService(repo Repository, enquiries EnquiryChecker, team SalesPersonChecker) *Service {
	return &Service{
		repo:      repo,
		enquiries: enquiries,
		team:      team,
	}
}

// Log records an activity. ActivityDate defaults to now when omitted.
func (s *Service) Log(ctx context.Context, req CreateRequest) (SalesActivity, error) {
	activityType := strings.ToUpper(strings.TrimSpace(req.ActivityType))
	if !IsValidType(activityType) {
		return SalesActivity{}, ErrInvalidActivityType
	}

	enquiryID := strings.TrimSpace(req.EnquiryID)
	if enquiryID != "" {
		ok, err := s.enquiries.Exists(ctx, enquiryID)
		if err != nil {
			return SalesActivity{}, err
		}
		if !ok {
			return SalesActivity{}, ErrEnquiryNotFound
		}
	}

	salesPersonID := strings.TrimSpace(req.SalesPersonID)
	if salesPersonID != "" {
		ok, err := s.team.Exists(ctx, salesPersonID)
		if err != nil {
			return SalesActivity{}, err
		}
		if !ok {
			return SalesActivity{}, ErrSalesPersonNotFound
		}
	}

	now := time.Now().UTC()
	activityDate := now
	if req.ActivityDate != nil {
		activityDate = req.ActivityDate.UTC()
	}

	a := SalesActivity{
		ID:            primitive.NewObjectID().Hex(),
		EnquiryID:     enquiryID,
		SalesPersonID: salesPersonID,
		ActivityType:  activityType,
		Notes:         strings.TrimSpace(req.Notes),
		ActivityDate:  activityDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return SalesActivity{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (SalesActivity, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SalesActivity{}, ErrNotFound
		}
		return SalesActivity{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]SalesActivity, int64, error) {
	if filter.ActivityType != "" {
		filter.ActivityType = strings.ToUpper(strings.TrimSpace(filter.ActivityType))
		if !IsValidType(filter.ActivityType) {
			return nil, 0, ErrInvalidActivityType
		}
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) ListByEnquiry(ctx context.Context, enquiryID string, limit, offset int64) ([]SalesActivity, int64, error) {
	return s.List(ctx, ListFilter{EnquiryID: strings.TrimSpace(enquiryID)}, limit, offset)
}

func (s *Service) ListBySalesPerson(ctx context.Context, salesPersonID string, limit, offset int64) ([]SalesActivity, int64, error) {
	return s.List(ctx, ListFilter{SalesPersonID: strings.TrimSpace(salesPersonID)}, limit, offset)
}

func (s *Service) Recent(ctx context.Context, limit int64) ([]SalesActivity, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (SalesActivity, error) {
	if req.ActivityType != nil {
		activityType := strings.ToUpper(strings.TrimSpace(*req.ActivityType))
		if !IsValidType(activityType) {
			return SalesActivity{}, ErrInvalidActivityType
		}
		req.ActivityType = &activityType
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().UTC())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SalesActivity{}, ErrNotFound
		}
		return SalesActivity{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) CountTotal(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, ListFilter{})
}

func (s *Service) CountByType(ctx context.Context, activityType string) (int64, error) {
	activityType = strings.ToUpper(strings.TrimSpace(activityType))
	if !IsValidType(activityType) {
		return 0, ErrInvalidActivityType
	}
	return s.repo.Count(ctx, ListFilter{ActivityType: activityType})
}

func (s *Service) CountBySalesPerson(ctx context.Context, salesPersonID string) (int64, error) {
	return s.repo.Count(ctx, ListFilter{SalesPersonID: strings.TrimSpace(salesPersonID)})
}
