package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/require"
)

func requestWithID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/products/"+id, nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(IDParam, id)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func Test_ID_Parses_Path_Parameter(t *testing.T) {
	// Act
	id, err := ID(requestWithID("42"))

	// Assert
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func Test_ID_Accepts_Non_Positive_Integers(t *testing.T) {
	for raw, expected := range map[string]int64{"0": 0, "-1": -1} {
		t.Run(raw, func(t *testing.T) {
			// Act
			id, err := ID(requestWithID(raw))

			// Assert
			require.NoError(t, err)
			require.Equal(t, expected, id)
		})
	}
}

func Test_ID_Fails_With_400_When_Parameter_Not_Numeric(t *testing.T) {
	for _, raw := range []string{"abc", "1.5", ""} {
		t.Run(raw, func(t *testing.T) {
			// Act
			_, err := ID(requestWithID(raw))

			// Assert
			require.Equal(t, http.StatusBadRequest, core.StatusCode(err))
		})
	}
}

func Test_CommandError_Maps_Service_Errors(t *testing.T) {
	// Act & Assert
	require.Equal(t, http.StatusNotFound, core.StatusCode(CommandError(domain.ProductNotFoundError{ID: 1})))
	require.Equal(t, http.StatusInternalServerError, core.StatusCode(CommandError(errors.New("db down"))))
	require.Equal(t, http.StatusConflict, core.StatusCode(CommandError(core.NewCommandError(http.StatusConflict, nil))))
}

func Test_Location_Points_At_Product(t *testing.T) {
	require.Equal(t, "/products/7", Location(domain.Product{ID: 7}))
}
