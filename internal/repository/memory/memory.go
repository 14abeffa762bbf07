package memory

import (
	"context"
	"sync"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/repository"
)

// Store bundles the in-memory repositories.
type Store struct {
	repository.CarRepository
	repository.RentalRepository
}

func NewStore() *Store {
	return &Store{
		CarRepository:    NewCarRepository(),
		RentalRepository: NewRentalRepository(),
	}
}

// index is an id-keyed map that remembers insertion order.
type index[T any] struct {
	mu    sync.RWMutex
	byID  map[int64]T
	order []int64
}

func newIndex[T any]() *index[T] {
	return &index[T]{byID: make(map[int64]T)}
}

func (i *index[T]) insert(id int64, v T) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.byID[id]; exists {
		return false
	}
	i.byID[id] = v
	i.order = append(i.order, id)
	return true
}

func (i *index[T]) get(id int64) (T, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.byID[id]
	return v, ok
}

func (i *index[T]) list() []T {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]T, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.byID[id])
	}
	return out
}

type carRepository struct {
	cars *index[*domain.Car]
}

func NewCarRepository() repository.CarRepository {
	return &carRepository{cars: newIndex[*domain.Car]()}
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	_ = ctx
	if !r.cars.insert(car.ID, car) {
		return domain.NewDuplicateIDError("car", car.ID)
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	_ = ctx
	car, ok := r.cars.get(id)
	if !ok {
		return nil, domain.NewDomainError("car", id, domain.ErrCarNotFound)
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context) ([]*domain.Car, error) {
	_ = ctx
	return r.cars.list(), nil
}

type rentalRepository struct {
	rentals *index[*domain.Rental]
}

func NewRentalRepository() repository.RentalRepository {
	return &rentalRepository{rentals: newIndex[*domain.Rental]()}
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	_ = ctx
	if !r.rentals.insert(rental.ID, rental) {
		return domain.NewDuplicateIDError("rental", rental.ID)
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	_ = ctx
	rental, ok := r.rentals.get(id)
	if !ok {
		return nil, domain.NewDomainError("rental", id, domain.ErrRentalNotFound)
	}
	return rental, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]*domain.Rental, error) {
	_ = ctx
	return r.rentals.list(), nil
}
