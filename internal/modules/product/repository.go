package product

import (
	"context"
	"database/sql"

	"github.com/eskrenkovic/products-go/internal/modules/product/domain"

	"github.com/eskrenkovic/tql"
	"github.com/pkg/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	// FindByID reports found=false, without an error, when no product has the id.
	FindByID(ctx context.Context, id int64) (domain.Product, bool, error)
	// Save inserts products without an id and updates the rest. Updating
	// or deleting a product that no longer exists fails with
	// domain.ProductNotFoundError.
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, product domain.Product) error
}

var _ Repository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	const query = `
		SELECT
			id, name, maker, price, image_url
		FROM
			product
		ORDER BY
			id;`

	products, err := tql.Query[domain.Product](ctx, r.db, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load products")
	}

	return products, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (domain.Product, bool, error) {
	const query = `
		SELECT
			id, name, maker, price, image_url
		FROM
			product
		WHERE
			id = $1;`

	product, err := tql.QueryFirst[domain.Product](ctx, r.db, query, id)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return domain.Product{}, false, nil
	case err != nil:
		return domain.Product{}, false, errors.Wrapf(err, "failed to load product %d", id)
	}

	return product, true, nil
}

func (r *PostgresRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == 0 {
		return r.insert(ctx, product)
	}

	const stmt = `
		UPDATE
			product
		SET
			name = :name, maker = :maker, price = :price, image_url = :image_url
		WHERE
			id = :id;`

	result, err := tql.Exec(ctx, r.db, stmt, product)
	if err != nil {
		return domain.Product{}, errors.Wrapf(err, "failed to update product %d", product.ID)
	}

	if err := requireAffected(result, product.ID); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (r *PostgresRepository) insert(ctx context.Context, product domain.Product) (domain.Product, error) {
	const stmt = `
		INSERT INTO
			product (name, maker, price, image_url)
		VALUES
			($1, $2, $3, $4)
		RETURNING id;`

	id, err := tql.QueryFirst[int64](ctx, r.db, stmt, product.Name, product.Maker, product.Price, product.ImageURL)
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "failed to insert product")
	}

	product.ID = id
	return product, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, product domain.Product) error {
	const stmt = `
		DELETE FROM
			product
		WHERE
			id = $1;`

	result, err := tql.Exec(ctx, r.db, stmt, product.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to delete product %d", product.ID)
	}

	return requireAffected(result, product.ID)
}

// requireAffected reports a product removed by a concurrent delete.
func requireAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}

	if affected == 0 {
		return domain.ProductNotFoundError{ID: id}
	}

	return nil
}
