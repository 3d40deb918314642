//go:build !integration

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/eskrenkovic/products-go/internal/modules/auth"
	authdomain "github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	productdomain "github.com/eskrenkovic/products-go/internal/modules/product/domain"
	"github.com/eskrenkovic/products-go/internal/modules/tests"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(context.Context) error {
	return p.err
}

var (
	repository = tests.NewInMemoryProductRepository()
	tokens     = authdomain.NewTokenCodec([]byte("server-test-secret"), time.Hour)
	db         = &fakePinger{}
	router     http.Handler
)

func TestMain(m *testing.M) {
	RegisterPipelineBehaviors(zap.NewNop())

	if err := RegisterProductHandlers(repository); err != nil {
		log.Fatal(err)
	}

	router = NewRouter(zap.NewNop(), auth.NewGate(tokens), db)

	os.Exit(m.Run())
}

func userToken(t *testing.T) string {
	t.Helper()

	token, err := tokens.IssueToken(authdomain.User{ID: 1, Authority: authdomain.AuthorityUser})
	require.NoError(t, err)

	return token
}

func seedProduct(t *testing.T, name string) productdomain.Product {
	t.Helper()

	p, err := repository.Save(context.Background(), productdomain.Product{Name: name, Maker: "acme", Price: 100, ImageURL: "x"})
	require.NoError(t, err)

	return p
}

func send(t *testing.T, method, target, authorization string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	r := httptest.NewRequest(method, target, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		r.Header.Set(auth.AuthorizationHeader, authorization)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}

func decodeProduct(t *testing.T, w *httptest.ResponseRecorder) productdomain.Product {
	t.Helper()

	var p productdomain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	return p
}

var penPayload = map[string]interface{}{"name": "pen", "maker": "acme", "price": 100, "imageUrl": "x"}

func Test_Create_Product_Returns_201_With_Assigned_ID_When_User_Authenticated(t *testing.T) {
	// Act
	w := send(t, http.MethodPost, "/products", auth.BearerPrefix+userToken(t), penPayload)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeProduct(t, w)
	require.NotZero(t, created.ID)
	require.Equal(t, "pen", created.Name)
	require.Equal(t, "acme", created.Maker)
	require.Equal(t, int64(100), created.Price)
	require.Equal(t, "x", created.ImageURL)
	require.Equal(t, productPath(created.ID), w.Header().Get("Location"))
}

func Test_Create_Product_Returns_401_When_Not_Authenticated(t *testing.T) {
	// Arrange
	before := repository.Mutations()

	// Act
	w := send(t, http.MethodPost, "/products", "", penPayload)

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, before, repository.Mutations())
}

func Test_Create_Product_Returns_403_When_User_Lacks_Authority(t *testing.T) {
	// Arrange
	token, err := tokens.IssueToken(authdomain.User{ID: 5})
	require.NoError(t, err)

	// Act
	w := send(t, http.MethodPost, "/products", auth.BearerPrefix+token, penPayload)

	// Assert
	require.Equal(t, http.StatusForbidden, w.Code)
}

func Test_Create_Product_Returns_400_When_Payload_Invalid(t *testing.T) {
	// Arrange
	before := repository.Mutations()

	// Act
	w := send(t, http.MethodPost, "/products", auth.BearerPrefix+userToken(t), map[string]interface{}{"name": ""})

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, before, repository.Mutations())
}

func Test_Get_Products_Returns_List(t *testing.T) {
	// Arrange
	seeded := seedProduct(t, "listed")

	// Act
	w := send(t, http.MethodGet, "/products", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var products []productdomain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Contains(t, products, seeded)
}

func Test_Get_Product_Returns_Product_Or_404(t *testing.T) {
	// Arrange
	seeded := seedProduct(t, "single")

	// Act
	found := send(t, http.MethodGet, productPath(seeded.ID), "", nil)
	missing := send(t, http.MethodGet, productPath(999999), "", nil)
	malformed := send(t, http.MethodGet, "/products/abc", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, found.Code)
	require.Equal(t, seeded, decodeProduct(t, found))
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, http.StatusBadRequest, malformed.Code)
}

func Test_Update_Product_Returns_200_With_Changed_Fields(t *testing.T) {
	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			// Arrange
			seeded := seedProduct(t, "pen")
			payload := map[string]interface{}{"name": "pencil", "maker": "acme", "price": 100, "imageUrl": "x"}

			// Act
			w := send(t, method, productPath(seeded.ID), auth.BearerPrefix+userToken(t), payload)

			// Assert
			require.Equal(t, http.StatusOK, w.Code)

			updated := decodeProduct(t, w)
			require.Equal(t, seeded.ID, updated.ID)
			require.Equal(t, "pencil", updated.Name)

			stored, found, err := repository.FindByID(context.Background(), seeded.ID)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, updated, stored)
		})
	}
}

func Test_Update_Product_Returns_404_When_Product_Missing(t *testing.T) {
	// Arrange
	before := repository.Mutations()

	// Act
	w := send(t, http.MethodPatch, productPath(999999), auth.BearerPrefix+userToken(t), penPayload)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, before, repository.Mutations())
}

func Test_Protected_Routes_Return_401_With_Empty_Body_When_Header_Missing(t *testing.T) {
	seeded := seedProduct(t, "guarded")

	for _, method := range []string{http.MethodPatch, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			// Arrange
			before := repository.Mutations()

			// Act
			w := send(t, method, productPath(seeded.ID), "", penPayload)

			// Assert
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Empty(t, w.Body.String())
			require.Equal(t, before, repository.Mutations())
		})
	}
}

func Test_Protected_Routes_Return_401_When_Token_Invalid(t *testing.T) {
	seeded := seedProduct(t, "guarded")

	for _, method := range []string{http.MethodPatch, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			// Arrange
			before := repository.Mutations()

			// Act
			w := send(t, method, productPath(seeded.ID), "Bearer badtoken", penPayload)

			// Assert
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Contains(t, w.Body.String(), auth.ErrNotValidToken.Error())
			require.Equal(t, before, repository.Mutations())
		})
	}
}

func Test_Delete_Product_Returns_204_And_Removes_Product(t *testing.T) {
	// Arrange
	seeded := seedProduct(t, "doomed")

	// Act
	w := send(t, http.MethodDelete, productPath(seeded.ID), auth.BearerPrefix+userToken(t), nil)

	// Assert
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())

	_, found, err := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.False(t, found)

	again := send(t, http.MethodGet, productPath(seeded.ID), "", nil)
	require.Equal(t, http.StatusNotFound, again.Code)
}

func Test_Delete_Product_Returns_404_When_Product_Missing(t *testing.T) {
	// Arrange
	before := repository.Mutations()

	// Act
	w := send(t, http.MethodDelete, productPath(999), auth.BearerPrefix+userToken(t), nil)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, before, repository.Mutations())
}

func Test_Non_Positive_Product_IDs_Return_404(t *testing.T) {
	for _, id := range []int64{0, -1} {
		for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+productPath(id), func(t *testing.T) {
				// Arrange
				before := repository.Mutations()

				// Act
				w := send(t, method, productPath(id), auth.BearerPrefix+userToken(t), penPayload)

				// Assert
				require.Equal(t, http.StatusNotFound, w.Code)
				require.Equal(t, before, repository.Mutations())
			})
		}
	}
}

func Test_Non_Numeric_Product_ID_Returns_400(t *testing.T) {
	// Act
	w := send(t, http.MethodDelete, "/products/abc", auth.BearerPrefix+userToken(t), nil)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_Health_Reports_Database_State(t *testing.T) {
	// Act
	healthy := send(t, http.MethodGet, "/health", "", nil)

	db.err = errors.New("connection refused")
	defer func() { db.err = nil }()
	unhealthy := send(t, http.MethodGet, "/health", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, healthy.Code)
	require.Equal(t, http.StatusServiceUnavailable, unhealthy.Code)
}
