package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/ledger"
	"github.com/salesledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the sellable catalog
type ProductService struct {
	productRepo ledger.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo ledger.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// CreateProduct registers a product. SKUs are unique when present.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ledger.Product, error) {
	if req.SKU != "" {
		existing, err := s.productRepo.FindBySKU(ctx, req.SKU)
		if err != nil {
			return nil, fmt.Errorf("check sku: %w", err)
		}
		if existing != nil {
			return nil, shared.NewDomainError("SKU_EXISTS", "A product with this SKU already exists")
		}
	}

	product, err := ledger.NewProduct(req.Name, req.SKU, req.Unit, req.StandardPrice)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	return product, nil
}

// GetProduct returns one product
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	return product, nil
}

// ListProducts pages through the catalog
func (s *ProductService) ListProducts(ctx context.Context, keyword string, activeOnly bool, filter shared.Filter) (*shared.Paginated[*ledger.Product], error) {
	return s.productRepo.Search(ctx, keyword, activeOnly, filter)
}

// UpdateProduct applies a partial update
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ledger.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name, sku, unit := product.Name, product.SKU, product.Unit
	if req.Name != nil {
		name = *req.Name
	}
	if req.SKU != nil && *req.SKU != product.SKU {
		other, err := s.productRepo.FindBySKU(ctx, *req.SKU)
		if err != nil {
			return nil, fmt.Errorf("check sku: %w", err)
		}
		if other != nil {
			return nil, shared.NewDomainError("SKU_EXISTS", "A product with this SKU already exists")
		}
		sku = *req.SKU
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if err := product.Update(name, sku, unit, req.StandardPrice); err != nil {
		return nil, err
	}

	if req.Active != nil {
		if *req.Active {
			product.Enable()
		} else {
			product.Disable()
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product that no sale line references.
// Referenced products can only be disabled.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.productRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return shared.NewDomainError("PRODUCT_IN_USE", "Product is referenced by sales and cannot be deleted")
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
