package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDuplicateEmail     = errors.New("email already registered")
)

type Service struct {
	repo   Repository
	tokens *auth.Manager
}

func NewService(repo Repository, tokens *auth.Manager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !IsValidRole(role) {
		return User{}, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	u := User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return u, nil
}

// Login checks the credentials and mints an access/refresh token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, "", "", ErrInvalidCredentials
		}
		return User{}, "", "", err
	}

	if err := auth.ComparePassword(u.PasswordHash, req.Password); err != nil {
		return User{}, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.NewAccessToken(u.ID, u.Role, u.Name)
	if err != nil {
		return User{}, "", "", err
	}
	refresh, err := s.tokens.NewRefreshToken(u.ID, u.Role, u.Name)
	if err != nil {
		return User{}, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh validates a refresh token and mints a fresh pair for the same user.
// The user is re-read so a role change takes effect on the next rotation.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (User, string, string, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return User{}, "", "", ErrInvalidCredentials
	}

	u, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, "", "", ErrInvalidCredentials
		}
		return User{}, "", "", err
	}

	access, err := s.tokens.NewAccessToken(u.ID, u.Role, u.Name)
	if err != nil {
		return User{}, "", "", err
	}
	refresh, err := s.tokens.NewRefreshToken(u.ID, u.Role, u.Name)
	if err != nil {
		return User{}, "", "", err
	}
	return u, access, refresh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// AuthorName looks up the display name for a comment author.
func (s *Service) AuthorName(ctx context.Context, userID string) (string, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}
