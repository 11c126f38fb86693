package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("comment not found")
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrUserNotFound    = errors.New("user not found")
)

// EnquiryChecker verifies the parent enquiry exists before a comment is added.
type EnquiryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AuthorLookup resolves the commenting user's display name.
type AuthorLookup interface {
	AuthorName(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo      Repository
	enquiries EnquiryChecker
	authors   AuthorLookup
}

func NewService(repo Repository, enquiries EnquiryChecker, authors AuthorLookup) *Service {
	return &Service{
		repo:      repo,
		enquiries: enquiries,
		authors:   authors,
	}
}

func (s *Service) Add(ctx context.Context, enquiryID string, req CreateRequest) (Comment, error) {
	enquiryID = strings.TrimSpace(enquiryID)
	ok, err := s.enquiries.Exists(ctx, enquiryID)
	if err != nil {
		return Comment{}, err
	}
	if !ok {
		return Comment{}, ErrEnquiryNotFound
	}

	userID := strings.TrimSpace(req.UserID)
	name, err := s.authors.AuthorName(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Comment{}, ErrUserNotFound
		}
		return Comment{}, err
	}

	// Max+1 numbering. Concurrent commenters can race to the same number;
	// the number is a display ordinal, not a key, so the race is tolerated.
	maxNumber, err := s.repo.MaxNumberByEnquiry(ctx, enquiryID)
	if err != nil {
		return Comment{}, err
	}

	c := Comment{
		ID:            primitive.NewObjectID().Hex(),
		EnquiryID:     enquiryID,
		UserID:        userID,
		UserName:      name,
		CommentNumber: maxNumber + 1,
		CommentText:   strings.TrimSpace(req.CommentText),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) ListByEnquiry(ctx context.Context, enquiryID string) ([]Comment, error) {
	return s.repo.ListByEnquiry(ctx, strings.TrimSpace(enquiryID))
}

func (s *Service) CountByEnquiry(ctx context.Context, enquiryID string) (int64, error) {
	return s.repo.CountByEnquiry(ctx, strings.TrimSpace(enquiryID))
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

// DeleteByEnquiry purges all comments of a deleted enquiry.
func (s *Service) DeleteByEnquiry(ctx context.Context, enquiryID string) error {
	return s.repo.DeleteByEnquiry(ctx, strings.TrimSpace(enquiryID))
}
