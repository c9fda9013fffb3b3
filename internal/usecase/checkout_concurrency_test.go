package usecase

import (
	"context"
	"sync"
	"testing"

	"shop_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent checkouts of the same product must never drive stock negative:
// the reservation is a single conditional update, so exactly as many orders
// succeed as there are units in stock.
func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	const stock = 5
	const attempts = 20

	uc, orderRepo, productRepo, _ := checkoutFixture(
		&domain.Product{ID: 1, Name: "Court Classic", Price: 50.00, StockQuantity: stock, InStock: true},
	)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Checkout(context.Background(), 100+i, validRequest(
				domain.CheckoutItem{ProductID: 1, Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}

	assert.Equal(t, stock, succeeded)
	assert.Len(t, orderRepo.orders, stock)

	p := productRepo.get(1)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.StockQuantity)
	assert.GreaterOrEqual(t, p.StockQuantity, 0)
	assert.False(t, p.InStock)
	assert.Equal(t, stock, p.Sales)
}
