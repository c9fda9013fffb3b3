package usecase

import (
	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// ProductUseCase exposes read-only catalog access. Catalog writes happen
// outside this core; the only mutations here are the stock operations driven
// by checkout and cancellation.
type ProductUseCase interface {
	GetProductByID(id int) (*domain.Product, error)
	ListProducts(limit, offset int) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *productUseCase) GetProductByID(id int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, domain.NewError(domain.KindValidation, "invalid product ID")
	}

	product, err := uc.productRepo.GetProductByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}

	return product, nil
}

func (uc *productUseCase) ListProducts(limit, offset int) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d products", len(products))
	return products, nil
}
