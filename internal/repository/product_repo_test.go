package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_service/internal/domain"
)

func TestClassifyReservationFailureOutOfStock(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Air Max 90", StockQuantity: 0, InStock: false}

	failure, retry := classifyReservationFailure(product, 2)

	require.False(t, retry)
	require.Error(t, failure)
	assert.Equal(t, domain.KindOutOfStock, domain.KindOf(failure))
}

func TestClassifyReservationFailureInsufficientStock(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Air Max 90", StockQuantity: 1, InStock: true}

	failure, retry := classifyReservationFailure(product, 3)

	require.False(t, retry)
	require.Error(t, failure)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(failure))
	assert.Contains(t, failure.Error(), "requested 3, available 1")
}

// A re-read showing enough stock means a restock landed between the
// conditional update and the re-read; the failure must not blame
// insufficient stock with numbers that contradict the request.
func TestClassifyReservationFailureConcurrentRestockRetries(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Air Max 90", StockQuantity: 5, InStock: true}

	failure, retry := classifyReservationFailure(product, 3)

	assert.True(t, retry)
	assert.NoError(t, failure)
}
