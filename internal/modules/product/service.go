package product

import (
	"context"

	"github.com/eskrenkovic/products-go/internal/modules/product/domain"
)

// CommandService applies create, update and delete mutations to products.
type CommandService struct {
	repository Repository
}

func NewCommandService(repository Repository) *CommandService {
	return &CommandService{repository}
}

func (s *CommandService) CreateProduct(ctx context.Context, data domain.ProductData) (domain.Product, error) {
	return s.repository.Save(ctx, data.ToProduct())
}

func (s *CommandService) UpdateProduct(ctx context.Context, id int64, data domain.ProductData) (domain.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	return s.repository.Save(ctx, product.ChangeWith(data))
}

func (s *CommandService) DeleteProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if err := s.repository.Delete(ctx, product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *CommandService) findProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if !found {
		return domain.Product{}, domain.ProductNotFoundError{ID: id}
	}

	return product, nil
}

// QueryService serves product reads.
type QueryService struct {
	repository Repository
}

func NewQueryService(repository Repository) *QueryService {
	return &QueryService{repository}
}

func (s *QueryService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = make([]domain.Product, 0)
	}

	return products, nil
}

func (s *QueryService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if !found {
		return domain.Product{}, domain.ProductNotFoundError{ID: id}
	}

	return product, nil
}
