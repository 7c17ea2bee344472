package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"
	"orderdesk/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RegisterInput carries the registration form
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtUtil           *utils.JWTUtil
	initialOwnerEmail string
}

// NewAuthService creates a new AuthService. A registration with
// initialOwnerEmail becomes the Owner while no Owner exists yet.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialOwnerEmail string) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialOwnerEmail: model.NormalizeEmail(initialOwnerEmail),
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	email := model.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if in.Password != in.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrDuplicateEmail
	}

	role, err := s.initialRole(ctx, email)
	if err != nil {
		return nil, "", err
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, "", ErrDuplicateEmail
		case errors.Is(err, repository.ErrOwnerExists):
			// Lost the bootstrap race: another Owner registered in between.
			user.Role = model.RoleOperationsLead
			if err := s.userRepo.Create(ctx, user); err != nil {
				if errors.Is(err, repository.ErrEmailTaken) {
					return nil, "", ErrDuplicateEmail
				}
				return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
			}
		default:
			return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
		}
	}

	if user.Role == model.RoleOwner {
		log.Info().Str("user_id", user.ID).Msg("owner account bootstrapped")
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("user created, but failed to generate token")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *authService) initialRole(ctx context.Context, email string) (model.Role, error) {
	if s.initialOwnerEmail == "" || email != s.initialOwnerEmail {
		return model.RoleOperationsLead, nil
	}
	exists, err := s.userRepo.OwnerExists(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to check owner: %w", err)
	}
	if exists {
		return model.RoleOperationsLead, nil
	}
	return model.RoleOwner, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy spends a bcrypt comparison on unknown emails so both failure
// paths take about the same time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("orderdesk-dummy-password")
	})
	utils.CheckPasswordHash(password, dummyHash)
}

// Authenticate verifies credentials and returns the user with a signed token
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		compareDummy(password)
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
