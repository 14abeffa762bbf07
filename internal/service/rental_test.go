package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/metrics"
	"fleet-rental-pricing/internal/pricing"
	"fleet-rental-pricing/internal/repository/memory"
)

func ptr[T any](v T) *T { return &v }

func carRequest(id int64) domain.CarRequest {
	return domain.CarRequest{ID: ptr(id), PricePerDay: ptr(int64(2000)), PricePerKm: ptr(int64(10))}
}

func rentalRequest(id, carID int64) domain.RentalRequest {
	return domain.RentalRequest{
		ID:        ptr(id),
		CarID:     ptr(carID),
		StartDate: ptr("2015-12-08"),
		EndDate:   ptr("2015-12-10"),
		Distance:  ptr(int64(100)),
	}
}

func newMemoryService() RentalService {
	store := memory.NewStore()
	return NewRentalService(store.CarRepository, store.RentalRepository,
		pricing.NewEngine(pricing.DefaultParams()), metrics.New(prometheus.NewRegistry()))
}

func TestRentalService_AddCar(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()

	t.Run("Success", func(t *testing.T) {
		car, err := svc.AddCar(ctx, carRequest(1))
		require.NoError(t, err)
		assert.Equal(t, int64(2000), car.PricePerDay)
	})

	t.Run("Duplicate id keeps the first car", func(t *testing.T) {
		req := carRequest(1)
		req.PricePerDay = ptr(int64(1))
		_, err := svc.AddCar(ctx, req)
		assert.ErrorIs(t, err, domain.ErrValidation)

		cars, err := svc.ListCars(ctx)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, int64(2000), cars[0].PricePerDay)
	})

	t.Run("Missing price", func(t *testing.T) {
		_, err := svc.AddCar(ctx, domain.CarRequest{ID: ptr(int64(2)), PricePerDay: ptr(int64(10))})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRentalService_CreateRental(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	_, err := svc.AddCar(ctx, carRequest(1))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		rental, err := svc.CreateRental(ctx, rentalRequest(1, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(6600), rental.DiscountedPrice)

		got, err := svc.GetRental(ctx, 1)
		require.NoError(t, err)
		assert.Same(t, rental, got)
	})

	t.Run("Unknown car", func(t *testing.T) {
		_, err := svc.CreateRental(ctx, rentalRequest(2, 42))
		assert.ErrorIs(t, err, domain.ErrDomain)
		assert.ErrorIs(t, err, domain.ErrCarNotFound)
	})

	t.Run("Missing car id", func(t *testing.T) {
		req := rentalRequest(3, 1)
		req.CarID = nil
		_, err := svc.CreateRental(ctx, req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		_, err := svc.CreateRental(ctx, rentalRequest(1, 1))
		assert.ErrorIs(t, err, domain.ErrValidation)

		rentals, err := svc.ListRentals(ctx)
		require.NoError(t, err)
		assert.Len(t, rentals, 1)
	})
}

func TestRentalService_RejectedIDStaysClaimed(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	_, err := svc.AddCar(ctx, carRequest(1))
	require.NoError(t, err)

	t.Run("Rental after an unknown car", func(t *testing.T) {
		_, err := svc.CreateRental(ctx, rentalRequest(1, 9))
		assert.ErrorIs(t, err, domain.ErrCarNotFound)

		_, err = svc.CreateRental(ctx, rentalRequest(1, 1))
		assert.ErrorIs(t, err, domain.ErrValidation)

		rentals, err := svc.ListRentals(ctx)
		require.NoError(t, err)
		assert.Empty(t, rentals)
	})

	t.Run("Duplicate wins over unknown car", func(t *testing.T) {
		_, err := svc.CreateRental(ctx, rentalRequest(2, 1))
		require.NoError(t, err)

		_, err = svc.CreateRental(ctx, rentalRequest(2, 42))
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NotErrorIs(t, err, domain.ErrCarNotFound)
	})

	t.Run("Incomplete record does not claim its id", func(t *testing.T) {
		req := rentalRequest(3, 1)
		req.Distance = nil
		_, err := svc.CreateRental(ctx, req)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateRental(ctx, rentalRequest(3, 1))
		assert.NoError(t, err)
	})

	t.Run("Car after a negative price", func(t *testing.T) {
		req := carRequest(5)
		req.PricePerKm = ptr(int64(-1))
		_, err := svc.AddCar(ctx, req)
		assert.ErrorIs(t, err, domain.ErrNegativePrice)

		_, err = svc.AddCar(ctx, carRequest(5))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRentalService_CreateRental_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	carRepo := new(MockCarRepo)
	rentalRepo := new(MockRentalRepo)
	svc := NewRentalService(carRepo, rentalRepo, pricing.NewEngine(pricing.DefaultParams()), nil)

	t.Run("Lookup error is returned", func(t *testing.T) {
		boom := errors.New("connection reset")
		carRepo.On("GetByID", ctx, int64(7)).Return(nil, boom).Once()
		_, err := svc.CreateRental(ctx, rentalRequest(1, 7))
		assert.ErrorIs(t, err, boom)
		rentalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Create error is returned", func(t *testing.T) {
		boom := errors.New("disk full")
		carRepo.On("GetByID", ctx, int64(1)).Return(&domain.Car{ID: 1, PricePerDay: 2000, PricePerKm: 10}, nil).Once()
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).Return(boom).Once()
		_, err := svc.CreateRental(ctx, rentalRequest(2, 1))
		assert.ErrorIs(t, err, boom)
	})

	carRepo.AssertExpectations(t)
	rentalRepo.AssertExpectations(t)
}

func TestRentalService_Payments(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	_, err := svc.AddCar(ctx, carRequest(1))
	require.NoError(t, err)
	_, err = svc.CreateRental(ctx, rentalRequest(1, 1))
	require.NoError(t, err)
	_, err = svc.CreateRental(ctx, rentalRequest(2, 1))
	require.NoError(t, err)

	issued, err := svc.IssuePayments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, len(domain.Actors), issued)

	issued, err = svc.IssueAllPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(domain.Actors), issued)

	issued, err = svc.IssueAllPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, issued)

	_, err = svc.IssuePayments(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
}

func TestRentalService_ModifyRental(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	_, err := svc.AddCar(ctx, carRequest(1))
	require.NoError(t, err)
	_, err = svc.CreateRental(ctx, rentalRequest(1, 1))
	require.NoError(t, err)
	_, err = svc.IssueAllPayments(ctx)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		rental, err := svc.ModifyRental(ctx, domain.Adjustment{ID: ptr(int64(1)), RentalID: ptr(int64(1)), Distance: ptr(int64(150))})
		require.NoError(t, err)
		driver, ok := rental.History(domain.ActorDriver).Outstanding()
		require.True(t, ok)
		assert.Equal(t, domain.Outstanding{Type: domain.Debit, Amount: 500}, driver)
	})

	t.Run("Unknown rental", func(t *testing.T) {
		_, err := svc.ModifyRental(ctx, domain.Adjustment{RentalID: ptr(int64(9)), Distance: ptr(int64(1))})
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})

	t.Run("Missing rental id", func(t *testing.T) {
		_, err := svc.ModifyRental(ctx, domain.Adjustment{Distance: ptr(int64(1))})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRentalService_ReadRentals(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService()
	_, err := svc.AddCar(ctx, carRequest(1))
	require.NoError(t, err)
	_, err = svc.CreateRental(ctx, rentalRequest(1, 1))
	require.NoError(t, err)

	var seen int
	err = svc.ReadRentals(ctx, func(rentals []*domain.Rental) error {
		seen = len(rentals)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)

	stop := errors.New("stop")
	assert.ErrorIs(t, svc.ReadRentals(ctx, func([]*domain.Rental) error { return stop }), stop)
}
