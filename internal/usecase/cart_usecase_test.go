package usecase

import (
	"testing"

	"shop_service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(products ...*domain.Product) (CartUseCase, *fakeCartRepo, *fakeProductRepo) {
	cartRepo := newFakeCartRepo()
	productRepo := newFakeProductRepo(products...)
	return NewCartUseCase(cartRepo, productRepo, testLogger()), cartRepo, productRepo
}

func TestGetCartIsIdempotent(t *testing.T) {
	uc, _, _ := newCartFixture()

	first, err := uc.GetCart(7)
	require.NoError(t, err)
	second, err := uc.GetCart(7)
	require.NoError(t, err)

	assert.Equal(t, first.Cart.ID, second.Cart.ID)
	assert.Empty(t, first.Cart.Items)
	assert.Empty(t, second.Cart.Items)
	assert.Zero(t, second.Subtotal)
	assert.Zero(t, second.ItemCount)
}

func TestAddItemMergesDuplicateKey(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	_, err := uc.AddItem(7, 1, 2, "42", "black")
	require.NoError(t, err)
	summary, err := uc.AddItem(7, 1, 3, "42", "black")
	require.NoError(t, err)

	require.Len(t, summary.Cart.Items, 1)
	assert.Equal(t, 5, summary.Cart.Items[0].Quantity)
	assert.Equal(t, 5, summary.ItemCount)
	assert.InDelta(t, 600.00, summary.Subtotal, 0.001)
}

func TestAddItemDistinctVariantsStaySeparate(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	_, err := uc.AddItem(7, 1, 1, "42", "black")
	require.NoError(t, err)
	summary, err := uc.AddItem(7, 1, 1, "43", "black")
	require.NoError(t, err)

	assert.Len(t, summary.Cart.Items, 2)
	assert.Equal(t, 2, summary.ItemCount)
}

func TestAddItemCapturesPriceAtAddTime(t *testing.T) {
	uc, _, productRepo := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	_, err := uc.AddItem(7, 1, 1, "", "")
	require.NoError(t, err)

	// A later catalog price change must not touch the captured cart price.
	productRepo.mu.Lock()
	productRepo.products[1].Price = 200.00
	productRepo.mu.Unlock()

	summary, err := uc.GetCart(7)
	require.NoError(t, err)
	require.Len(t, summary.Cart.Items, 1)
	assert.InDelta(t, 120.00, summary.Cart.Items[0].Price, 0.001)
	assert.InDelta(t, 120.00, summary.Subtotal, 0.001)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	uc, _, _ := newCartFixture()

	_, err := uc.AddItem(7, 99, 1, "", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAddItemRejectsOutOfStockProduct(t *testing.T) {
	uc, _, productRepo := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 0, InStock: false,
	})

	_, err := uc.AddItem(7, 1, 1, "", "")
	require.Error(t, err)
	assert.Equal(t, domain.KindOutOfStock, domain.KindOf(err))

	// The advisory check reserves nothing.
	assert.Equal(t, 0, productRepo.get(1).StockQuantity)
}

func TestUpdateItemQuantityRejectsNonPositive(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	summary, err := uc.AddItem(7, 1, 2, "", "")
	require.NoError(t, err)
	itemID := summary.Cart.Items[0].ID

	_, err = uc.UpdateItemQuantity(7, itemID, 0)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = uc.UpdateItemQuantity(7, itemID, -3)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUpdateItemQuantitySetsQuantityDirectly(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	added, err := uc.AddItem(7, 1, 2, "", "")
	require.NoError(t, err)

	summary, err := uc.UpdateItemQuantity(7, added.Cart.Items[0].ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Cart.Items[0].Quantity)
	assert.InDelta(t, 1080.00, summary.Subtotal, 0.001)
}

func TestUpdateItemQuantityMissingItem(t *testing.T) {
	uc, _, _ := newCartFixture()

	_, err := uc.UpdateItemQuantity(7, uuid.New(), 2)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	_, err := uc.AddItem(7, 1, 1, "", "")
	require.NoError(t, err)

	summary, err := uc.RemoveItem(7, uuid.New())
	require.NoError(t, err)
	assert.Len(t, summary.Cart.Items, 1)
}

func TestRemoveItemFiltersItem(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	added, err := uc.AddItem(7, 1, 1, "", "")
	require.NoError(t, err)

	summary, err := uc.RemoveItem(7, added.Cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Cart.Items)
	assert.Zero(t, summary.Subtotal)
}

func TestClearEmptiesCart(t *testing.T) {
	uc, _, _ := newCartFixture(&domain.Product{
		ID: 1, Name: "Air Max 90", Price: 120.00, StockQuantity: 10, InStock: true,
	})

	_, err := uc.AddItem(7, 1, 4, "", "")
	require.NoError(t, err)
	require.NoError(t, uc.Clear(7))

	summary, err := uc.GetCart(7)
	require.NoError(t, err)
	assert.Empty(t, summary.Cart.Items)
}
