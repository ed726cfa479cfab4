package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/repository"
	"restopos/pkg/apperror"
	"restopos/pkg/utils"
)

// AuthService handles login and account management for terminal users.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginResult represents a successful authentication
type LoginResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Login verifies credentials against the stored bcrypt hash and issues a
// JWT. Unknown users and wrong passwords produce the same error so the
// response does not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// RegisterInput represents the register user input
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

// Register creates a terminal user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Username) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "username", Message: "Username must not be empty"})
	}
	if len(input.Password) < 6 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if fieldErrors != nil {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	username := strings.TrimSpace(input.Username)
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = "cashier"
	}

	user := &entity.User{
		Username: username,
		Password: string(hashed),
		FullName: input.FullName,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewStoreError("user create", err)
	}
	return user, nil
}

// GetProfile retrieves the authenticated user's account.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
