package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("forbidden: your role does not permit this action")
	ErrInvalidTarget = errors.New("the owner's role cannot be changed")
	ErrInvalidRole   = errors.New("invalid role")
)

// CanChangeOrderStatus reports whether a role may move orders through their
// lifecycle. Every personnel role currently may.
func CanChangeOrderStatus(role model.Role) bool {
	switch role {
	case model.RoleOwner, model.RoleOperationsLead, model.RoleWarehouseStaff, model.RoleLogisticsLead:
		return true
	default:
		return false
	}
}

// PersonnelService lists personnel and manages their roles
type PersonnelService interface {
	ListPersonnel(ctx context.Context) ([]model.UserSummary, error)
	ChangeRole(ctx context.Context, actorID, targetID, newRole string) (*model.User, error)
}

type personnelService struct {
	userRepo repository.UserRepository
}

// NewPersonnelService creates a new PersonnelService
func NewPersonnelService(userRepo repository.UserRepository) PersonnelService {
	return &personnelService{userRepo: userRepo}
}

// ListPersonnel returns every user, the Owner first and the rest by name.
func (s *personnelService) ListPersonnel(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	sortPersonnel(summaries)
	return summaries, nil
}

func sortPersonnel(users []model.UserSummary) {
	col := collate.New(language.Turkish, collate.IgnoreCase)
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if (a.Role == model.RoleOwner) != (b.Role == model.RoleOwner) {
			return a.Role == model.RoleOwner
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// ChangeRole lets the Owner reassign a non-owner user. The actor's role is
// read from storage rather than trusted from the token.
func (s *personnelService) ChangeRole(ctx context.Context, actorID, targetID, newRole string) (*model.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if actor == nil || actor.Role != model.RoleOwner {
		return nil, ErrForbidden
	}

	role, err := model.ParseRole(newRole)
	if err != nil || !role.Assignable() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, newRole)
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.Role == model.RoleOwner {
		return nil, ErrInvalidTarget
	}

	updated, err := s.userRepo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if !updated {
		return nil, ErrInvalidTarget
	}

	log.Info().Str("actor_id", actorID).Str("user_id", targetID).
		Str("from", string(target.Role)).Str("to", string(role)).Msg("role changed")
	target.Role = role
	return target, nil
}
