package usecase

import (
	"io"
	"sort"
	"sync"
	"time"

	"shop_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeProductRepo mirrors the conditional-update semantics of the Postgres
// repository: every reservation checks and mutates under one lock.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int]*domain.Product)}
	for _, p := range products {
		cp := *p
		repo.products[p.ID] = &cp
	}
	return repo
}

func (r *fakeProductRepo) get(id int) *domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *fakeProductRepo) GetProductByID(id int) (*domain.Product, error) {
	p := r.get(id)
	if p == nil {
		return nil, domain.NewError(domain.KindNotFound, "product with id %d not found", id)
	}
	return p, nil
}

func (r *fakeProductRepo) ListProducts(limit, offset int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []domain.Product
	for _, p := range r.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *fakeProductRepo) ReserveStock(productID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return domain.NewError(domain.KindNotFound, "product with id %d not found", productID)
	}
	if !p.InStock {
		return domain.NewError(domain.KindOutOfStock, "product %q is out of stock", p.Name)
	}
	if p.StockQuantity < quantity {
		return domain.NewError(domain.KindInsufficientStock,
			"insufficient stock for product %q: requested %d, available %d", p.Name, quantity, p.StockQuantity)
	}

	p.StockQuantity -= quantity
	p.Sales += quantity
	p.InStock = p.StockQuantity > 0
	return nil
}

func (r *fakeProductRepo) ReleaseStock(productID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return domain.NewError(domain.KindNotFound, "product with id %d not found", productID)
	}

	p.StockQuantity += quantity
	p.Sales -= quantity
	if p.Sales < 0 {
		p.Sales = 0
	}
	p.InStock = true
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[int]*domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[int]*domain.Cart)}
}

func (r *fakeCartRepo) GetOrCreateByUserID(userID int) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		now := time.Now()
		cart = &domain.Cart{
			ID:        uuid.New(),
			UserID:    userID,
			Items:     []domain.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.carts[userID] = cart
	}
	return copyCart(cart), nil
}

func (r *fakeCartRepo) findByCartID(cartID uuid.UUID) *domain.Cart {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

func (r *fakeCartRepo) UpsertItem(cartID uuid.UUID, item *domain.CartItem) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.findByCartID(cartID)
	if cart == nil {
		return nil, domain.NewError(domain.KindNotFound, "cart %s not found", cartID)
	}

	for i := range cart.Items {
		existing := &cart.Items[i]
		if existing.ProductID == item.ProductID && existing.Size == item.Size && existing.Color == item.Color {
			existing.Quantity += item.Quantity
			cart.UpdatedAt = time.Now()
			return copyCart(cart), nil
		}
	}
	cart.Items = append(cart.Items, *item)
	cart.UpdatedAt = time.Now()
	return copyCart(cart), nil
}

func (r *fakeCartRepo) UpdateItemQuantity(cartID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.findByCartID(cartID)
	if cart == nil {
		return nil, domain.NewError(domain.KindNotFound, "cart %s not found", cartID)
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return copyCart(cart), nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "cart item %s not found", itemID)
}

func (r *fakeCartRepo) RemoveItem(cartID, itemID uuid.UUID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.findByCartID(cartID)
	if cart == nil {
		return nil, domain.NewError(domain.KindNotFound, "cart %s not found", cartID)
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered
	cart.UpdatedAt = time.Now()
	return copyCart(cart), nil
}

func (r *fakeCartRepo) Clear(cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.findByCartID(cartID)
	if cart == nil {
		return domain.NewError(domain.KindNotFound, "cart %s not found", cartID)
	}
	cart.Items = []domain.CartItem{}
	cart.UpdatedAt = time.Now()
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	cp := *cart
	cp.Items = append([]domain.CartItem{}, cart.Items...)
	return &cp
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	cp := copyOrder(order)
	r.orders[order.ID] = cp
	return copyOrder(cp), nil
}

func (r *fakeOrderRepo) GetOrderByID(id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "order with id %s not found", id)
	}
	return copyOrder(order), nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "order with id %s not found", id)
	}
	order.Status = status
	order.PaymentStatus = paymentStatus
	order.UpdatedAt = time.Now()
	return copyOrder(order), nil
}

func (r *fakeOrderRepo) ListOrdersByUserID(userID int, limit, offset int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var orders []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, *copyOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	if offset >= len(orders) {
		return []domain.Order{}, nil
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end], nil
}

func copyOrder(order *domain.Order) *domain.Order {
	cp := *order
	cp.Items = append([]domain.OrderLineItem{}, order.Items...)
	return &cp
}
