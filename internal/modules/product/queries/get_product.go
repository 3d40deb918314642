package queries

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/mediator-go"
)

type GetProductQuery struct {
	ID int64
}

func HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := product.ID(r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	found, err := mediator.Send[GetProductQuery, domain.Product](r.Context(), GetProductQuery{ID: id})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, found)
}

type GetProductQueryHandler struct {
	service *product.QueryService
}

func NewGetProductQueryHandler(service *product.QueryService) *GetProductQueryHandler {
	return &GetProductQueryHandler{service}
}

func (h *GetProductQueryHandler) Handle(ctx context.Context, request GetProductQuery) (domain.Product, error) {
	found, err := h.service.GetProduct(ctx, request.ID)
	if err != nil {
		return domain.Product{}, product.CommandError(err)
	}

	return found, nil
}
