package repository

import (
	"context"

	"fleet-rental-pricing/internal/domain"
)

// CarRepository keeps the car catalog. Create rejects a repeated id
// without replacing the stored car.
type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	List(ctx context.Context) ([]*domain.Car, error)
}

// RentalRepository keeps priced rentals in insertion order.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	List(ctx context.Context) ([]*domain.Rental, error)
}
