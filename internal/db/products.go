package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

const productColumns = `product_id, distributor_id, name, sku, category, price, stock, status, description, created_at`

// ListProducts returns all products, oldest first
func (db *Database) ListProducts(ctx context.Context) ([]models.Product, error) {
	return db.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at ASC`)
}

// ListProductsByDistributor returns the products supplied by a distributor
func (db *Database) ListProductsByDistributor(ctx context.Context, distributorID string) ([]models.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE distributor_id = $1 ORDER BY created_at ASC`, distributorID)
}

// ListLowStockProducts returns products whose stock is at or below threshold
func (db *Database) ListLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= $1 ORDER BY stock ASC, name ASC`, threshold)
}

func (db *Database) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
}

// GetProduct returns one product by ID
func (db *Database) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Product])
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// CreateProduct inserts a product with a generated ID and returns the re-fetched row.
// The supplying distributor's counter is recounted in the same transaction.
func (db *Database) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	id := uuid.NewString()
	query := `
        INSERT INTO products
            (product_id, distributor_id, name, sku, category, price, stock, status, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			id, p.DistributorID, p.Name, p.SKU, p.Category, p.Price, p.Stock, p.Status, p.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", classify(err))
		}
		return recountOwners(ctx, tx, roster.DistributorProducts, p.DistributorID)
	})
	if err != nil {
		return nil, err
	}
	return db.GetProduct(ctx, id)
}

// UpdateProduct updates an existing product and returns the re-fetched row.
// When the distributor reference changes both distributors are recounted.
func (db *Database) UpdateProduct(ctx context.Context, id string, p models.Product) (*models.Product, error) {
	query := `
        UPDATE products
        SET distributor_id = $2,
            name = $3,
            sku = $4,
            category = $5,
            price = $6,
            stock = $7,
            status = $8,
            description = $9
        WHERE product_id = $1
    `
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := lockOwnerRef(ctx, tx, roster.DistributorProducts, id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, query,
			id, p.DistributorID, p.Name, p.SKU, p.Category, p.Price, p.Stock, p.Status, p.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", classify(err))
		}
		return recountOwners(ctx, tx, roster.DistributorProducts, previous, p.DistributorID)
	})
	if err != nil {
		return nil, err
	}
	return db.GetProduct(ctx, id)
}

// DeleteProduct permanently removes a product and recounts its distributor
func (db *Database) DeleteProduct(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := deleteMember(ctx, tx, roster.DistributorProducts, id)
		if err != nil {
			return err
		}
		return recountOwners(ctx, tx, roster.DistributorProducts, previous)
	})
}
