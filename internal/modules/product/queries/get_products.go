package queries

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/mediator-go"
)

type GetProductsQuery struct{}

func HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := mediator.Send[GetProductsQuery, []domain.Product](r.Context(), GetProductsQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, products)
}

type GetProductsQueryHandler struct {
	service *product.QueryService
}

func NewGetProductsQueryHandler(service *product.QueryService) *GetProductsQueryHandler {
	return &GetProductsQueryHandler{service}
}

func (h *GetProductsQueryHandler) Handle(ctx context.Context, _ GetProductsQuery) ([]domain.Product, error) {
	products, err := h.service.GetProducts(ctx)
	if err != nil {
		return nil, product.CommandError(err)
	}

	return products, nil
}
