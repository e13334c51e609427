package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "pestguard/database/repository/user"
	"pestguard/models"
	"pestguard/utils"
)

const tokenValidity = 24 * time.Hour

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken rejects registration with an email already on file.
	ErrEmailTaken = errors.New("email already registered")
)

// RegisterRequest carries a new account's fields.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// AuthResult is a signed session: the account plus its bearer token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService owns accounts and sign-in.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	role := req.Role
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleTechnician, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    time.Now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if err == userRepo.ErrDuplicate {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.GetLogger().Info("user registered",
		zap.String("userID", user.ID), zap.String("role", user.Role))
	return s.issueSession(ctx, user)
}

func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if err == userRepo.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, user)
}

// issueSession signs a role-scoped token and caches its hash so the auth
// middleware can validate without a database round trip.
func (s *DefaultUserService) issueSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Role, tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	cacheKey := utils.AuthCachePrefix + user.ID
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, utils.HashToken(token), tokenValidity).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache auth token",
			zap.String("userID", user.ID), zap.Error(err))
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *DefaultUserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultUserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultUserService) Update(ctx context.Context, user *models.User) error {
	return s.Repo.Update(ctx, user)
}

func (s *DefaultUserService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
