package commands

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/mediator-go"
)

type CreateProductCommand struct {
	Data domain.ProductData
}

func (c CreateProductCommand) Validate() error {
	return core.Validate(c.Data.Validate()...)
}

func HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	data, err := core.RequestBody[domain.ProductData](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	created, err := mediator.Send[CreateProductCommand, domain.Product](r.Context(), CreateProductCommand{Data: data})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, product.Location(created), created)
}

type CreateProductCommandHandler struct {
	service *product.CommandService
}

func NewCreateProductCommandHandler(service *product.CommandService) *CreateProductCommandHandler {
	return &CreateProductCommandHandler{service}
}

func (h *CreateProductCommandHandler) Handle(
	ctx context.Context,
	request CreateProductCommand,
) (domain.Product, error) {
	created, err := h.service.CreateProduct(ctx, request.Data)
	if err != nil {
		return domain.Product{}, product.CommandError(err)
	}

	return created, nil
}
