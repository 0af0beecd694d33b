package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

const customerColumns = `customer_id, salesman_id, name, city, region, tier, contact,
    COALESCE(email, '') AS email, phone, address, notes, status, created_at`

// ListCustomers returns all customers ordered by name
func (db *Database) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return db.queryCustomers(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name ASC`)
}

// ListCustomersBySalesman returns the customers assigned to a salesman
func (db *Database) ListCustomersBySalesman(ctx context.Context, salesmanID string) ([]models.Customer, error) {
	return db.queryCustomers(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE salesman_id = $1 ORDER BY name ASC`, salesmanID)
}

// ListUnassignedCustomers returns customers without a salesman
func (db *Database) ListUnassignedCustomers(ctx context.Context) ([]models.Customer, error) {
	return db.queryCustomers(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE salesman_id IS NULL ORDER BY name ASC`)
}

func (db *Database) queryCustomers(ctx context.Context, query string, args ...any) ([]models.Customer, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Customer])
}

// GetCustomer returns one customer by ID
func (db *Database) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Customer])
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

// CreateCustomer inserts a customer with a generated ID and returns the stored row.
// The owning salesman's counter is recounted in the same transaction.
func (db *Database) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	c.ID = uuid.NewString()
	query := `
        INSERT INTO customers
            (customer_id, salesman_id, name, city, region, tier, contact, email, phone, address, notes, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at
    `
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			c.ID, c.SalesmanID, c.Name, c.City, c.Region, c.Tier, c.Contact, c.EmailParam(), c.Phone, c.Address, c.Notes, c.Status,
		).Scan(&c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", classify(err))
		}
		return recountOwners(ctx, tx, roster.SalesmanCustomers, c.SalesmanID)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCustomer updates an existing customer, including its salesman reference.
// When the reference changes both salesmen are recounted.
func (db *Database) UpdateCustomer(ctx context.Context, id string, c models.Customer) error {
	query := `
        UPDATE customers
        SET salesman_id = $2,
            name = $3,
            city = $4,
            region = $5,
            tier = $6,
            contact = $7,
            email = $8,
            phone = $9,
            address = $10,
            notes = $11,
            status = $12
        WHERE customer_id = $1
    `
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := lockOwnerRef(ctx, tx, roster.SalesmanCustomers, id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, query,
			id, c.SalesmanID, c.Name, c.City, c.Region, c.Tier, c.Contact, c.EmailParam(), c.Phone, c.Address, c.Notes, c.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to update customer: %w", classify(err))
		}
		return recountOwners(ctx, tx, roster.SalesmanCustomers, previous, c.SalesmanID)
	})
}

// DeleteCustomer deletes a customer by ID and recounts its salesman
func (db *Database) DeleteCustomer(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := deleteMember(ctx, tx, roster.SalesmanCustomers, id)
		if err != nil {
			return err
		}
		return recountOwners(ctx, tx, roster.SalesmanCustomers, previous)
	})
}
