package queries

import (
	"context"
	"net/http"
	"testing"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"
	"github.com/eskrenkovic/products-go/internal/modules/tests"

	"github.com/stretchr/testify/require"
)

func Test_GetProductsQueryHandler_Returns_All_Products(t *testing.T) {
	// Arrange
	repository := tests.NewInMemoryProductRepository(
		domain.Product{ID: 2, Name: "pencil", Maker: "acme", Price: 50},
		domain.Product{ID: 1, Name: "pen", Maker: "acme", Price: 100},
	)
	handler := NewGetProductsQueryHandler(product.NewQueryService(repository))

	// Act
	products, err := handler.Handle(context.Background(), GetProductsQuery{})

	// Assert
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
}

func Test_GetProductQueryHandler_Returns_404_When_Product_Missing(t *testing.T) {
	// Arrange
	handler := NewGetProductQueryHandler(product.NewQueryService(tests.NewInMemoryProductRepository()))

	// Act
	_, err := handler.Handle(context.Background(), GetProductQuery{ID: 1})

	// Assert
	require.Equal(t, http.StatusNotFound, core.StatusCode(err))
}
