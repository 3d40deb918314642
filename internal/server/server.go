package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/products-go/internal/config"
	"github.com/eskrenkovic/products-go/internal/modules/auth"
	authcommands "github.com/eskrenkovic/products-go/internal/modules/auth/commands"
	authdomain "github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	"github.com/eskrenkovic/products-go/internal/modules/core"
	"github.com/eskrenkovic/products-go/internal/modules/product"
	productcommands "github.com/eskrenkovic/products-go/internal/modules/product/commands"
	productdomain "github.com/eskrenkovic/products-go/internal/modules/product/domain"
	productqueries "github.com/eskrenkovic/products-go/internal/modules/product/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for an application.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
	logger *zap.Logger
}

func NewHTTPServer(config config.Config) (*HTTPServer, error) {
	baseCtx := context.Background()

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := WarmQueryMappings(baseCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	RegisterPipelineBehaviors(config.Logger)

	passwordHasher := authdomain.NewPasswordHasher(config.Auth.PasswordCost)
	tokens := authdomain.NewTokenCodec(config.Auth.Secret, config.Auth.TokenTTL)

	if err := RegisterAuthHandlers(db, passwordHasher, tokens); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RegisterProductHandlers(product.NewPostgresRepository(db)); err != nil {
		_ = db.Close()
		return nil, err
	}

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: NewRouter(config.Logger, auth.NewGate(tokens), db),
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return &HTTPServer{server: &server, db: db, logger: config.Logger}, nil
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *HTTPServer) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")

	shutdownErr := s.server.Shutdown(ctx)
	if err := s.db.Close(); err != nil && shutdownErr == nil {
		return err
	}

	return shutdownErr
}

func RegisterPipelineBehaviors(logger *zap.Logger) {
	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)
}

func RegisterAuthHandlers(
	db *sql.DB,
	passwordHasher *authdomain.PasswordHasher,
	tokens *authdomain.TokenCodec,
) error {
	registerUserHandler := authcommands.NewRegisterUserCommandHandler(db, passwordHasher)
	err := mediator.RegisterRequestHandler[authcommands.RegisterUserCommand, authdomain.User](
		registerUserHandler,
	)
	if err != nil {
		return err
	}

	loginHandler := authcommands.NewLoginCommandHandler(db, passwordHasher, tokens)
	return mediator.RegisterRequestHandler[authcommands.LoginCommand, authcommands.LoginResponse](
		loginHandler,
	)
}

func RegisterProductHandlers(repository product.Repository) error {
	commandService := product.NewCommandService(repository)
	queryService := product.NewQueryService(repository)

	createProductHandler := productcommands.NewCreateProductCommandHandler(commandService)
	err := mediator.RegisterRequestHandler[productcommands.CreateProductCommand, productdomain.Product](
		createProductHandler,
	)
	if err != nil {
		return err
	}

	updateProductHandler := productcommands.NewUpdateProductCommandHandler(commandService)
	err = mediator.RegisterRequestHandler[productcommands.UpdateProductCommand, productdomain.Product](
		updateProductHandler,
	)
	if err != nil {
		return err
	}

	deleteProductHandler := productcommands.NewDeleteProductCommandHandler(commandService)
	err = mediator.RegisterRequestHandler[productcommands.DeleteProductCommand, productdomain.Product](
		deleteProductHandler,
	)
	if err != nil {
		return err
	}

	getProductsHandler := productqueries.NewGetProductsQueryHandler(queryService)
	err = mediator.RegisterRequestHandler[productqueries.GetProductsQuery, []productdomain.Product](
		getProductsHandler,
	)
	if err != nil {
		return err
	}

	getProductHandler := productqueries.NewGetProductQueryHandler(queryService)
	return mediator.RegisterRequestHandler[productqueries.GetProductQuery, productdomain.Product](
		getProductHandler,
	)
}

// WarmQueryMappings fills tql's type mapping caches for every struct the
// server scans or binds. The caches are plain maps, so they must be
// populated before requests run concurrently.
func WarmQueryMappings(ctx context.Context, db *sql.DB) error {
	const productRow = `
		SELECT
			CAST(0 AS BIGINT) AS id,
			'' AS name,
			'' AS maker,
			CAST(0 AS BIGINT) AS price,
			'' AS image_url;`

	if _, err := tql.QueryFirst[productdomain.Product](ctx, db, productRow); err != nil {
		return errors.Wrap(err, "failed to map product columns")
	}

	const userRow = `
		SELECT
			CAST(0 AS BIGINT) AS id,
			'' AS email,
			'' AS name,
			'' AS password_hash,
			'' AS authority;`

	if _, err := tql.QueryFirst[authdomain.User](ctx, db, userRow); err != nil {
		return errors.Wrap(err, "failed to map user columns")
	}

	// Ids start at 1, so this binds the product parameters without
	// touching a row.
	const productBinding = `
		UPDATE
			product
		SET
			name = :name, maker = :maker, price = :price, image_url = :image_url
		WHERE
			id = :id;`

	if _, err := tql.Exec(ctx, db, productBinding, productdomain.Product{}); err != nil {
		return errors.Wrap(err, "failed to bind product parameters")
	}

	return nil
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func NewRouter(logger *zap.Logger, gate *auth.Gate, db pinger) http.Handler {
	r := chi.NewRouter()

	r.Use(core.CorrelationIDHTTPMiddleware)
	r.Use(core.AccessLogHTTPMiddleware(logger))

	r.Get("/health", handleHealth(db))

	// auth

	r.Post("/users", authcommands.HandleRegisterUser)
	r.Post("/session", authcommands.HandleLogin)

	// products

	r.Get("/products", productqueries.HandleGetProducts)
	r.With(gate.Authenticate, gate.RequireAuthority(authdomain.AuthorityUser)).
		Post("/products", productcommands.HandleCreateProduct)

	r.Get("/products/{id}", productqueries.HandleGetProduct)
	r.With(gate.RequireBearerToken).Patch("/products/{id}", productcommands.HandleUpdateProduct)
	r.With(gate.RequireBearerToken).Put("/products/{id}", productcommands.HandleUpdateProduct)
	r.With(gate.RequireBearerToken).Delete("/products/{id}", productcommands.HandleDeleteProduct)

	return r
}

func handleHealth(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			core.LogError(r.Context(), "health check failed", zap.Error(err))
			core.WriteServiceUnavailable(w, r, nil)
			return
		}

		core.WriteOK(w, r, nil)
	}
}
