package product

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/go-chi/chi"
)

const IDParam = "id"

// ID parses the {id} path parameter. Any integer is accepted; ids that
// no product has, including zero and negative ones, are not found later.
func ID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, IDParam)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.NewCommandError(http.StatusBadRequest, fmt.Errorf("invalid product id: '%s'", raw))
	}

	return id, nil
}

func Location(product domain.Product) string {
	return "/products/" + strconv.FormatInt(product.ID, 10)
}

// CommandError maps service errors onto HTTP statuses.
func CommandError(err error) error {
	var commandErr core.CommandError
	switch {
	case errors.As(err, &commandErr):
		return commandErr
	case errors.Is(err, domain.ErrProductNotFound):
		return core.NewCommandError(http.StatusNotFound, err)
	default:
		return core.NewCommandError(http.StatusInternalServerError, err)
	}
}
