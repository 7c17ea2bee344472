package service

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"
	"orderdesk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT() *utils.JWTUtil {
	return utils.NewJWTUtil("test-secret", "orderdesk", 1)
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:            "Ayşe Yılmaz",
		Email:           " Ayse@Example.com ",
		Phone:           "555 000",
		Password:        "password123",
		PasswordConfirm: "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			assert.Equal(t, "ayse@example.com", email)
			return nil, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			stored = user
			return nil
		},
	}
	svc := NewAuthService(repo, newJWT(), "")

	user, token, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, stored, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ayse@example.com", user.Email)
	assert.Equal(t, model.RoleOperationsLead, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("password123", user.PasswordHash))

	claims, err := newJWT().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "OperationsLead", claims.Role)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, newJWT(), "")

	in := validInput()
	in.PasswordConfirm = "different"
	_, _, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newJWT(), "")

	in := validInput()
	in.Name = "  "
	_, _, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u-1", Email: email}, nil
		},
	}
	svc := NewAuthService(repo, newJWT(), "")

	_, _, err := svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) { return nil, nil },
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrEmailTaken
		},
	}
	svc := NewAuthService(repo, newJWT(), "")

	_, _, err := svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_BootstrapsOwner(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) { return nil, nil },
		ownerExistsFn: func(ctx context.Context) (bool, error) { return false, nil },
		createFn:      func(ctx context.Context, user *model.User) error { return nil },
	}
	svc := NewAuthService(repo, newJWT(), "AYSE@example.com")

	user, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, user.Role)
}

func TestRegister_OwnerAlreadyExists(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) { return nil, nil },
		ownerExistsFn: func(ctx context.Context) (bool, error) { return true, nil },
		createFn:      func(ctx context.Context, user *model.User) error { return nil },
	}
	svc := NewAuthService(repo, newJWT(), "ayse@example.com")

	user, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, model.RoleOperationsLead, user.Role)
}

func TestRegister_OwnerRaceFallsBack(t *testing.T) {
	var roles []model.Role
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) { return nil, nil },
		ownerExistsFn: func(ctx context.Context) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *model.User) error {
			roles = append(roles, user.Role)
			if user.Role == model.RoleOwner {
				return repository.ErrOwnerExists
			}
			return nil
		},
	}
	svc := NewAuthService(repo, newJWT(), "ayse@example.com")

	user, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, model.RoleOperationsLead, user.Role)
	assert.Equal(t, []model.Role{model.RoleOwner, model.RoleOperationsLead}, roles)
}

func TestRegister_StorageDown(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, repository.ErrUnavailable
		},
	}
	svc := NewAuthService(repo, newJWT(), "")

	_, _, err := svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestAuthenticate(t *testing.T) {
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	existing := &model.User{ID: "u-1", Name: "Ayşe", Email: "ayse@example.com", PasswordHash: hash, Role: model.RoleWarehouseStaff}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == existing.Email {
				return existing, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(repo, newJWT(), "")

	t.Run("success, email case-insensitive", func(t *testing.T) {
		user, token, err := svc.Authenticate(context.Background(), "AYSE@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, errWrong := svc.Authenticate(context.Background(), "ayse@example.com", "nope")
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)

		_, _, errUnknown := svc.Authenticate(context.Background(), "ghost@example.com", "nope")
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("storage error is not a credential error", func(t *testing.T) {
		broken := &mockUserRepo{
			findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				return nil, errors.New("boom")
			},
		}
		_, _, err := NewAuthService(broken, newJWT(), "").Authenticate(context.Background(), "a@b.c", "x")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
