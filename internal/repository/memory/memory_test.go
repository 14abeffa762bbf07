package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-rental-pricing/internal/domain"
)

func TestCarRepository(t *testing.T) {
	repo := NewCarRepository()
	ctx := context.Background()

	t.Run("Create and get", func(t *testing.T) {
		car := &domain.Car{ID: 1, PricePerDay: 2000, PricePerKm: 10}
		require.NoError(t, repo.Create(ctx, car))

		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Same(t, car, got)
	})

	t.Run("Duplicate does not overwrite", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Car{ID: 1, PricePerDay: 9999})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "repeated car id 1")

		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), got.PricePerDay)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrCarNotFound)
	})

	t.Run("List keeps insertion order", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &domain.Car{ID: 7}))
		require.NoError(t, repo.Create(ctx, &domain.Car{ID: 3}))
		cars, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cars, 3)
		assert.Equal(t, []int64{1, 7, 3}, []int64{cars[0].ID, cars[1].ID, cars[2].ID})
	})
}

func TestRentalRepository(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: 2}))
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: 1}))

	err := store.RentalRepository.Create(ctx, &domain.Rental{ID: 2, Distance: 5})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := store.RentalRepository.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Distance)

	_, err = store.RentalRepository.GetByID(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)

	rentals, err := store.RentalRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, int64(2), rentals[0].ID)
	assert.Equal(t, int64(1), rentals[1].ID)
}
