package service

import (
	"context"

	"fleet-rental-pricing/internal/domain"
)

// RentalService manages the car catalog and the priced rentals.
type RentalService interface {
	AddCar(ctx context.Context, req domain.CarRequest) (*domain.Car, error)
	ListCars(ctx context.Context) ([]*domain.Car, error)
	CreateRental(ctx context.Context, req domain.RentalRequest) (*domain.Rental, error)
	GetRental(ctx context.Context, id int64) (*domain.Rental, error)
	ListRentals(ctx context.Context) ([]*domain.Rental, error)
	IssuePayments(ctx context.Context, rentalID int64) (int, error)
	IssueAllPayments(ctx context.Context) (int, error)
	ModifyRental(ctx context.Context, adj domain.Adjustment) (*domain.Rental, error)
	// ReadRentals calls fn with every stored rental while mutations are held off.
	ReadRentals(ctx context.Context, fn func([]*domain.Rental) error) error
}
