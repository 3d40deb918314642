package commands

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/mediator-go"
)

type UpdateProductCommand struct {
	ID   int64
	Data domain.ProductData
}

func (c UpdateProductCommand) Validate() error {
	return core.Validate(c.Data.Validate()...)
}

// HandleUpdateProduct serves both PATCH and PUT. Either way every mutable
// field is replaced.
func HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := product.ID(r)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	data, err := core.RequestBody[domain.ProductData](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := UpdateProductCommand{ID: id, Data: data}

	updated, err := mediator.Send[UpdateProductCommand, domain.Product](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, updated)
}

type UpdateProductCommandHandler struct {
	service *product.CommandService
}

func NewUpdateProductCommandHandler(service *product.CommandService) *UpdateProductCommandHandler {
	return &UpdateProductCommandHandler{service}
}

func (h *UpdateProductCommandHandler) Handle(
	ctx context.Context,
	request UpdateProductCommand,
) (domain.Product, error) {
	updated, err := h.service.UpdateProduct(ctx, request.ID, request.Data)
	if err != nil {
		return domain.Product{}, product.CommandError(err)
	}

	return updated, nil
}
