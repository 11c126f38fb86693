package salesperson

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("sales person not found")

// LoadCounter reports how many active enquiries a sales person currently owns.
type LoadCounter interface {
	CountActiveByAssignee(ctx context.Context, salesPersonID string) (int64, error)
}

type Service struct {
	repo Repository
	load LoadCounter
}

func NewService(repo Repository, load LoadCounter) *Service {
	return &Service{repo: repo, load: load}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (SalesPerson, error) {
	now := time.Now().UTC()
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	sp := SalesPerson{
		ID:          primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:      strings.TrimSpace(req.Mobile),
		Designation: strings.TrimSpace(req.Designation),
		Available:   available,
		UserID:      strings.TrimSpace(req.UserID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return SalesPerson{}, err
	}
	return sp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (SalesPerson, error) {
	sp, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return SalesPerson{}, s.mapErr(err)
	}
	return sp, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]SalesPerson, int64, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]SalesPerson, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (SalesPerson, error) {
	if req.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &v
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().UTC())
	if err != nil {
		return SalesPerson{}, s.mapErr(err)
	}
	return updated, nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (SalesPerson, error) {
	updated, err := s.repo.SetAvailability(ctx, strings.TrimSpace(id), available, time.Now().UTC())
	if err != nil {
		return SalesPerson{}, s.mapErr(err)
	}
	return updated, nil
}

// Delete removes the person without touching their enquiries: the assignee
// reference is weak, and the denormalized name/email keeps old assignments
// resolvable.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return s.mapErr(err)
	}
	return nil
}

func (s *Service) ActiveLoad(ctx context.Context, id string) (int64, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.load.CountActiveByAssignee(ctx, strings.TrimSpace(id))
}

func (s *Service) mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
