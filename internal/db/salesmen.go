package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

const salesmanColumns = `salesman_id, name, region, email, phone, status,
    assigned_customer_count, assigned_distributor_count, created_at`

// ListSalesmen returns all salesmen, oldest first
func (db *Database) ListSalesmen(ctx context.Context) ([]models.Salesman, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+salesmanColumns+` FROM salesmen ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query salesmen: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Salesman])
}

// GetSalesman returns one salesman by ID
func (db *Database) GetSalesman(ctx context.Context, id string) (*models.Salesman, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+salesmanColumns+` FROM salesmen WHERE salesman_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query salesman: %w", err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Salesman])
	if err != nil {
		return nil, classify(err)
	}
	return s, nil
}

// CreateSalesman inserts a salesman with a generated ID and returns the stored row.
// Assignment counters are server-owned and start at zero.
func (db *Database) CreateSalesman(ctx context.Context, s models.Salesman) (*models.Salesman, error) {
	s.ID = uuid.NewString()
	query := `
        INSERT INTO salesmen
            (salesman_id, name, region, email, phone, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	err := db.Pool.QueryRow(ctx, query,
		s.ID, s.Name, s.Region, s.Email, s.Phone, s.Status,
	).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert salesman: %w", classify(err))
	}
	s.AssignedCustomerCount, s.AssignedDistributorCount = 0, 0
	return &s, nil
}

// UpdateSalesman updates an existing salesman. Assignment counters are left alone.
func (db *Database) UpdateSalesman(ctx context.Context, id string, s models.Salesman) error {
	query := `
        UPDATE salesmen
        SET name = $2,
            region = $3,
            email = $4,
            phone = $5,
            status = $6
        WHERE salesman_id = $1
    `
	cmd, err := db.Pool.Exec(ctx, query,
		id, s.Name, s.Region, s.Email, s.Phone, s.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update salesman: %w", classify(err))
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSalesman deletes a salesman by ID. Customers and distributors keep their reference.
func (db *Database) DeleteSalesman(ctx context.Context, id string) error {
	cmd, err := db.Pool.Exec(ctx, `DELETE FROM salesmen WHERE salesman_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salesman: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
