package tests

import (
	"context"
	"sort"
	"sync"

	"github.com/eskrenkovic/products-go/internal/modules/product/domain"
)

// InMemoryProductRepository is a product store for tests. It counts
// writes so tests can assert that a failed command mutated nothing.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64

	Saves   int
	Deletes int
}

func NewInMemoryProductRepository(products ...domain.Product) *InMemoryProductRepository {
	r := &InMemoryProductRepository{products: make(map[int64]domain.Product)}

	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}

	return r
}

func (r *InMemoryProductRepository) FindAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return products, nil
}

func (r *InMemoryProductRepository) FindByID(_ context.Context, id int64) (domain.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, found := r.products[id]
	return p, found, nil
}

func (r *InMemoryProductRepository) Save(_ context.Context, product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
	} else if _, found := r.products[product.ID]; !found {
		return domain.Product{}, domain.ProductNotFoundError{ID: product.ID}
	}

	r.products[product.ID] = product
	r.Saves++

	return product, nil
}

func (r *InMemoryProductRepository) Delete(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.products[product.ID]; !found {
		return domain.ProductNotFoundError{ID: product.ID}
	}

	delete(r.products, product.ID)
	r.Deletes++

	return nil
}

func (r *InMemoryProductRepository) Mutations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Saves + r.Deletes
}
