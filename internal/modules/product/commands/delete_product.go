package commands

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/mediator-go"
)

type DeleteProductCommand struct {
	ID int64
}

func HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := product.ID(r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	if _, err := mediator.Send[DeleteProductCommand, domain.Product](r.Context(), DeleteProductCommand{ID: id}); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type DeleteProductCommandHandler struct {
	service *product.CommandService
}

func NewDeleteProductCommandHandler(service *product.CommandService) *DeleteProductCommandHandler {
	return &DeleteProductCommandHandler{service}
}

func (h *DeleteProductCommandHandler) Handle(
	ctx context.Context,
	request DeleteProductCommand,
) (domain.Product, error) {
	deleted, err := h.service.DeleteProduct(ctx, request.ID)
	if err != nil {
		return domain.Product{}, product.CommandError(err)
	}

	return deleted, nil
}
