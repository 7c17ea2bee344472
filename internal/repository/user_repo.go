package repository

import (
	"context"
	"errors"
	"fmt"

	"orderdesk/internal/model"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrOwnerExists = errors.New("an owner already exists")
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	OwnerExists(ctx context.Context) (bool, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (bool, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, phone, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s: %w", ErrCorruptRow, u.ID, err)
	}
	u.Role = r
	return &u, nil
}

// Create inserts a new user. The email is expected to be normalized.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, name, email, phone, password_hash, role, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, sql, user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			if pgErr.ConstraintName == constraintSingleOwner {
				return ErrOwnerExists
			}
			return ErrEmailTaken
		}
		return unavailable("failed to create user", err)
	}
	return nil
}

// FindByEmail retrieves a user by email, case-insensitively. Returns nil when absent.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find user by email", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID. Returns nil when absent.
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find user by ID", err)
	}
	return user, nil
}

// FindAll lists every user in name order
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY name`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, unavailable("failed to query users", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, unavailable("failed to scan user row", err)
		}
		users = append(users, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, unavailable("error iterating user rows", err)
	}
	return users, nil
}

func (r *userRepository) OwnerExists(ctx context.Context) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`
	if err := r.db.QueryRow(ctx, sql, string(model.RoleOwner)).Scan(&exists); err != nil {
		return false, unavailable("failed to check owner", err)
	}
	return exists, nil
}

// UpdateRole sets the role of a non-owner user. It reports false when no
// such row matched, which covers both an unknown id and an Owner target.
func (r *userRepository) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	sql := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 AND role <> $3`
	cmdTag, err := r.db.Exec(ctx, sql, string(role), id, string(model.RoleOwner))
	if err != nil {
		return false, unavailable("failed to update user role", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
