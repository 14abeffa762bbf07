package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fleet-rental-pricing/internal/domain"
)

type MockCarRepo struct{ mock.Mock }

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	return m.Called(ctx, car).Error(0)
}

func (m *MockCarRepo) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepo) List(ctx context.Context) ([]*domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Car), args.Error(1)
}

type MockRentalRepo struct{ mock.Mock }

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) List(ctx context.Context) ([]*domain.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Rental), args.Error(1)
}
