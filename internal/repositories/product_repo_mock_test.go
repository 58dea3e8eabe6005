package repositories_test

import (
	"sync"
	"testing"

	"freshsea/internal/models"
	"freshsea/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMockProductRepository_DeductStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	err := repo.Create(&models.Product{ID: "p1", Name: "Seer Fish", PricePerKg: 900, StockKg: 5.0})
	assert.NoError(t, err)

	// Successful deduction reports the remaining stock.
	result, err := repo.DeductStock("p1", 1.5)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.InDelta(t, 3.5, result.AvailableStock, 1e-9)

	// Over-ask fails and reports the accurate current stock.
	result, err = repo.DeductStock("p1", 10)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Seer Fish", result.ProductName)
	assert.InDelta(t, 3.5, result.AvailableStock, 1e-9)

	// Missing product is an error, not a shortfall.
	_, err = repo.DeductStock("missing", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMockProductRepository_DeductStock_LastUnitRace(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	err := repo.Create(&models.Product{ID: "p1", Name: "Tiger Prawns", PricePerKg: 650, StockKg: 1.0})
	assert.NoError(t, err)

	// Two shoppers race for the last 1.0 kg. Exactly one deduction may win,
	// and the loser must see the accurate post-decrement stock.
	results := make([]*repositories.StockDeduction, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := repo.DeductStock("p1", 1.0)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, result := range results {
		if result.Success {
			winners++
		} else {
			assert.InDelta(t, 0.0, result.AvailableStock, 1e-9)
		}
	}
	assert.Equal(t, 1, winners)

	product, err := repo.GetByID("p1")
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, product.StockKg, 1e-9)
}
