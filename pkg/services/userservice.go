package services

import (
	"context"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
)

type userService struct {
	users UserRepository
}

func NewUserService(users UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, InfrastructureError(err, "look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// EnsureAdmin creates a super admin with email unless a user with that email
// already exists.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, InfrastructureError(err, "look up user")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      models.RoleSuperAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, false, storeError(err, "create user", "User already exists")
	}
	return user, true, nil
}

func userLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("User not found")
	}
	return InfrastructureError(err, "look up user")
}

func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ValidationError("Password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}
