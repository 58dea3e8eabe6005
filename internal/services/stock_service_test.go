package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"freshsea/internal/models"
	"freshsea/internal/repositories"
	"freshsea/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStockService_VerifyItems(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	assert.NoError(t, productRepo.Create(&models.Product{ID: "p1", Name: "Seer Fish", PricePerKg: 900, StockKg: 1.2, IsAvailable: true}))
	assert.NoError(t, productRepo.Create(&models.Product{ID: "p2", Name: "Squid", PricePerKg: 400, StockKg: 6, IsAvailable: false}))
	service := services.NewStockService(productRepo)

	checks, err := service.VerifyItems([]services.StockRequest{
		{ProductID: "p1", QuantityKg: 2.0},
		{ProductID: "gone", QuantityKg: 1.0},
		{ProductID: "p2", QuantityKg: 1.0},
	})
	assert.NoError(t, err)
	assert.Len(t, checks, 3)

	// Requested 2.0 kg against live stock 1.2 kg reports the shortfall with
	// the actual available quantity.
	assert.False(t, checks[0].Sufficient())
	assert.InDelta(t, 1.2, checks[0].AvailableKg, 1e-9)
	assert.Contains(t, checks[0].Message(), "only 1.2 kg left")

	assert.True(t, checks[1].Missing)
	assert.Contains(t, checks[1].Message(), "no longer available")

	// A delisted product fails verification even with stock on the books.
	assert.True(t, checks[2].Missing)
	assert.Contains(t, checks[2].Message(), "no longer available")

	shortfalls := services.Shortfalls(checks)
	assert.Len(t, shortfalls, 3)
}

func TestStockService_VerifyItems_Sufficient(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	assert.NoError(t, productRepo.Create(&models.Product{ID: "p1", Name: "Seer Fish", PricePerKg: 900, StockKg: 5, IsAvailable: true}))
	service := services.NewStockService(productRepo)

	checks, err := service.VerifyItems([]services.StockRequest{{ProductID: "p1", QuantityKg: 5}})
	assert.NoError(t, err)
	assert.True(t, checks[0].Sufficient())
	assert.Empty(t, services.Shortfalls(checks))
}

func TestStockService_Watch_RefreshesOnInterval(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	assert.NoError(t, productRepo.Create(&models.Product{ID: "p1", Name: "Seer Fish", PricePerKg: 900, StockKg: 3}))
	service := services.NewStockService(productRepo)

	var readings int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Watch(ctx, "p1", 5*time.Millisecond, func(stockKg float64) {
			atomic.AddInt32(&readings, 1)
		})
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&readings) >= 3
	}, time.Second, time.Millisecond, "expected repeated stock refreshes")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}
