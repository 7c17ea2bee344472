package service

import (
	"context"

	"orderdesk/internal/model"
)

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findAllFn     func(ctx context.Context) ([]model.User, error)
	ownerExistsFn func(ctx context.Context) (bool, error)
	updateRoleFn  func(ctx context.Context, id string, role model.Role) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	return m.findAllFn(ctx)
}
func (m *mockUserRepo) OwnerExists(ctx context.Context) (bool, error) {
	return m.ownerExistsFn(ctx)
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	return m.updateRoleFn(ctx, id, role)
}

type mockOrderRepo struct {
	createFn         func(ctx context.Context, order *model.Order) error
	findByIDFn       func(ctx context.Context, id string) (*model.Order, error)
	findAllFn        func(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	updateProcessFn  func(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)
	countByProcessFn func(ctx context.Context) (map[model.OrderStatus]int64, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	return m.createFn(ctx, order)
}
func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockOrderRepo) FindAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return m.findAllFn(ctx, filter)
}
func (m *mockOrderRepo) UpdateProcess(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	return m.updateProcessFn(ctx, id, from, to)
}
func (m *mockOrderRepo) CountByProcess(ctx context.Context) (map[model.OrderStatus]int64, error) {
	return m.countByProcessFn(ctx)
}
