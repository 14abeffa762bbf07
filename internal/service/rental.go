package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/metrics"
	"fleet-rental-pricing/internal/pricing"
	"fleet-rental-pricing/internal/repository"
)

type rentalService struct {
	mu         sync.RWMutex
	carRepo    repository.CarRepository
	rentalRepo repository.RentalRepository
	engine     *pricing.Engine
	metrics    *metrics.Metrics

	// Ids of complete records, claimed before any business check so a
	// record rejected later still keeps its id.
	carIDs    map[int64]struct{}
	rentalIDs map[int64]struct{}
}

func NewRentalService(
	carRepo repository.CarRepository,
	rentalRepo repository.RentalRepository,
	engine *pricing.Engine,
	m *metrics.Metrics,
) RentalService {
	return &rentalService{
		carRepo:    carRepo,
		rentalRepo: rentalRepo,
		engine:     engine,
		metrics:    m,
		carIDs:     make(map[int64]struct{}),
		rentalIDs:  make(map[int64]struct{}),
	}
}

func (s *rentalService) AddCar(ctx context.Context, req domain.CarRequest) (*domain.Car, error) {
	logger.EnterMethod("RentalService.AddCar")
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		car *domain.Car
		err error
	)
	if req.Complete() {
		err = claimID(s.carIDs, "car", *req.ID)
	}
	if err == nil {
		car, err = s.engine.BuildCar(req)
	}
	if err == nil {
		err = s.carRepo.Create(ctx, car)
	}
	if err != nil {
		s.metrics.ObserveRejected("car", err)
		logger.ExitMethodWithError("RentalService.AddCar", err)
		return nil, err
	}
	logger.ExitMethod("RentalService.AddCar", "carID", car.ID)
	return car, nil
}

func (s *rentalService) ListCars(ctx context.Context) ([]*domain.Car, error) {
	return s.carRepo.List(ctx)
}

func (s *rentalService) CreateRental(ctx context.Context, req domain.RentalRequest) (*domain.Rental, error) {
	logger.EnterMethod("RentalService.CreateRental")
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Complete() {
		if err := claimID(s.rentalIDs, "rental", *req.ID); err != nil {
			s.metrics.ObserveRejected("rental", err)
			logger.ExitMethodWithError("RentalService.CreateRental", err)
			return nil, err
		}
	}

	// An unknown car is reported by NewRental once the required fields
	// have been checked, so the lookup error itself is dropped.
	var car *domain.Car
	if req.CarID != nil {
		found, err := s.carRepo.GetByID(ctx, *req.CarID)
		if err != nil && !errors.Is(err, domain.ErrCarNotFound) {
			return nil, err
		}
		car = found
	}

	started := time.Now()
	rental, err := s.engine.BuildRental(car, req)
	if err == nil {
		err = s.rentalRepo.Create(ctx, rental)
	}
	s.metrics.ObserveRentalPriced(err, time.Since(started))
	if err != nil {
		s.metrics.ObserveRejected("rental", err)
		logger.ExitMethodWithError("RentalService.CreateRental", err)
		return nil, err
	}
	logger.ExitMethod("RentalService.CreateRental", "rentalID", rental.ID, "price", rental.DiscountedPrice)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, id int64) (*domain.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rentalRepo.GetByID(ctx, id)
}

func (s *rentalService) ListRentals(ctx context.Context) ([]*domain.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rentalRepo.List(ctx)
}

func (s *rentalService) ReadRentals(ctx context.Context, fn func([]*domain.Rental) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rentals, err := s.rentalRepo.List(ctx)
	if err != nil {
		return err
	}
	return fn(rentals)
}

func (s *rentalService) IssuePayments(ctx context.Context, rentalID int64) (int, error) {
	logger.EnterMethod("RentalService.IssuePayments", "rentalID", rentalID)
	s.mu.Lock()
	defer s.mu.Unlock()

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("RentalService.IssuePayments", err)
		return 0, err
	}
	issued := s.engine.IssuePayments(rental)
	s.metrics.ObserveIssued(issued)
	logger.ExitMethod("RentalService.IssuePayments", "issued", issued)
	return issued, nil
}

func (s *rentalService) IssueAllPayments(ctx context.Context) (int, error) {
	logger.EnterMethod("RentalService.IssueAllPayments")
	s.mu.Lock()
	defer s.mu.Unlock()

	rentals, err := s.rentalRepo.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("RentalService.IssueAllPayments", err)
		return 0, err
	}
	issued := 0
	for _, rental := range rentals {
		if err := ctx.Err(); err != nil {
			s.metrics.ObserveIssued(issued)
			return issued, err
		}
		issued += s.engine.IssuePayments(rental)
	}
	s.metrics.ObserveIssued(issued)
	logger.ExitMethod("RentalService.IssueAllPayments", "rentals", len(rentals), "issued", issued)
	return issued, nil
}

func (s *rentalService) ModifyRental(ctx context.Context, adj domain.Adjustment) (*domain.Rental, error) {
	logger.EnterMethod("RentalService.ModifyRental")
	s.mu.Lock()
	defer s.mu.Unlock()

	if adj.RentalID == nil {
		err := &domain.ValidationError{Record: "rental_modification", Field: "rental_id", Reason: "is required"}
		s.metrics.ObserveRejected("rental_modification", err)
		logger.ExitMethodWithError("RentalService.ModifyRental", err)
		return nil, err
	}

	started := time.Now()
	rental, err := s.rentalRepo.GetByID(ctx, *adj.RentalID)
	if err == nil {
		rental, err = s.engine.ApplyModification(rental, adj)
	}
	s.metrics.ObserveModification(err, time.Since(started))
	if err != nil {
		s.metrics.ObserveRejected("rental_modification", err)
		logger.ExitMethodWithError("RentalService.ModifyRental", err)
		return nil, err
	}
	logger.ExitMethod("RentalService.ModifyRental", "rentalID", rental.ID)
	return rental, nil
}

func claimID(seen map[int64]struct{}, record string, id int64) error {
	if _, dup := seen[id]; dup {
		return domain.NewDuplicateIDError(record, id)
	}
	seen[id] = struct{}{}
	return nil
}
