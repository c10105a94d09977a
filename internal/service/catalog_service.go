package service

import (
	"errors"

	"github.com/nerdgeek/tienda/internal/cache"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
	ErrInvalidCategory = errors.New("unknown product category")
)

type CatalogService struct {
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	cache       cache.CatalogCache
}

func NewCatalogService(productRepo *repository.ProductRepository, orderRepo *repository.OrderRepository, catalogCache cache.CatalogCache) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cache:       catalogCache,
	}
}

// ListProducts serves the public catalog, cache first. Cache trouble is
// never fatal; the database remains the source of truth.
func (s *CatalogService) ListProducts() ([]models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProducts()
		if err != nil {
			logger.Log.Warn("Catalog cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.ListProducts()
	if err != nil {
		logger.Log.Error("Failed to list products", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(products); err != nil {
			logger.Log.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(product *models.Product) error {
	if !product.Categoria.Valid() {
		return ErrInvalidCategory
	}

	if err := s.productRepo.CreateProduct(product); err != nil {
		logger.Log.Error("Failed to create product",
			zap.String("nombre", product.Nombre),
			zap.Error(err),
		)
		return err
	}

	s.invalidateCache()

	logger.Log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("nombre", product.Nombre),
	)
	return nil
}

func (s *CatalogService) UpdateProduct(product *models.Product) error {
	if !product.Categoria.Valid() {
		return ErrInvalidCategory
	}

	existing, err := s.productRepo.GetProductByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.UpdateProduct(product); err != nil {
		logger.Log.Error("Failed to update product",
			zap.Uint("product_id", product.ID),
			zap.Error(err),
		)
		return err
	}

	s.invalidateCache()
	return nil
}

// DeleteProduct refuses to remove a product any order still references.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	count, err := s.orderRepo.CountOrdersByProduct(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Log.Warn("Refusing to delete product in use",
			zap.Uint("product_id", id),
			zap.Int64("order_count", count),
		)
		return ErrProductInUse
	}

	if err := s.productRepo.DeleteProduct(id); err != nil {
		logger.Log.Error("Failed to delete product",
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return err
	}

	s.invalidateCache()

	logger.Log.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// ListGallery returns example photos for a product category.
func (s *CatalogService) ListGallery(categoria models.ProductCategory) ([]models.ExampleImage, error) {
	if !categoria.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.productRepo.ListExamplesByCategory(categoria)
}

func (s *CatalogService) AddExample(example *models.ExampleImage) error {
	product, err := s.productRepo.GetProductByID(example.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.CreateExample(example)
}

func (s *CatalogService) invalidateCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(); err != nil {
		logger.Log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
