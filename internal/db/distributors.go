package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

const distributorColumns = `distributor_id, salesman_id, name, company, region, phone,
    COALESCE(email, '') AS email, contact, status, assigned_product_count, notes, created_at`

// ListDistributors returns all distributors, oldest first
func (db *Database) ListDistributors(ctx context.Context) ([]models.Distributor, error) {
	return db.queryDistributors(ctx, `SELECT `+distributorColumns+` FROM distributors ORDER BY created_at ASC`)
}

// ListDistributorsBySalesman returns the distributors assigned to a salesman
func (db *Database) ListDistributorsBySalesman(ctx context.Context, salesmanID string) ([]models.Distributor, error) {
	return db.queryDistributors(ctx,
		`SELECT `+distributorColumns+` FROM distributors WHERE salesman_id = $1 ORDER BY created_at ASC`, salesmanID)
}

// ListUnassignedDistributors returns distributors without a salesman
func (db *Database) ListUnassignedDistributors(ctx context.Context) ([]models.Distributor, error) {
	return db.queryDistributors(ctx,
		`SELECT `+distributorColumns+` FROM distributors WHERE salesman_id IS NULL ORDER BY created_at ASC`)
}

func (db *Database) queryDistributors(ctx context.Context, query string, args ...any) ([]models.Distributor, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distributors: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Distributor])
}

// GetDistributor returns one distributor by ID
func (db *Database) GetDistributor(ctx context.Context, id string) (*models.Distributor, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+distributorColumns+` FROM distributors WHERE distributor_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query distributor: %w", err)
	}
	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Distributor])
	if err != nil {
		return nil, classify(err)
	}
	return d, nil
}

// CreateDistributor inserts a distributor with a generated ID and returns the re-fetched row.
// assigned_product_count is server-owned and starts at zero.
func (db *Database) CreateDistributor(ctx context.Context, d models.Distributor) (*models.Distributor, error) {
	id := uuid.NewString()
	query := `
        INSERT INTO distributors
            (distributor_id, salesman_id, name, company, region, phone, email, contact, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			id, d.SalesmanID, d.Name, d.Company, d.Region, d.Phone, d.EmailParam(), d.Contact, d.Status, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert distributor: %w", classify(err))
		}
		return recountOwners(ctx, tx, roster.SalesmanDistributors, d.SalesmanID)
	})
	if err != nil {
		return nil, err
	}
	return db.GetDistributor(ctx, id)
}

// UpdateDistributor updates a distributor. When assignedProducts is non-nil the
// distributor's product roster is replaced in the same transaction. A changed
// salesman reference recounts both salesmen.
func (db *Database) UpdateDistributor(ctx context.Context, id string, d models.Distributor, assignedProducts *[]string) (*roster.Result, error) {
	var result *roster.Result
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := lockOwnerRef(ctx, tx, roster.SalesmanDistributors, id)
		if err != nil {
			return err
		}
		query := `
            UPDATE distributors
            SET salesman_id = $2,
                name = $3,
                company = $4,
                region = $5,
                phone = $6,
                email = $7,
                contact = $8,
                status = $9,
                notes = $10
            WHERE distributor_id = $1
        `
		_, err = tx.Exec(ctx, query,
			id, d.SalesmanID, d.Name, d.Company, d.Region, d.Phone, d.EmailParam(), d.Contact, d.Status, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to update distributor: %w", classify(err))
		}
		if err := recountOwners(ctx, tx, roster.SalesmanDistributors, previous, d.SalesmanID); err != nil {
			return err
		}
		if assignedProducts == nil {
			return nil
		}
		res, err := roster.Reconcile(ctx, rosterTx{tx}, roster.DistributorProducts, id, *assignedProducts)
		if err != nil {
			return fmt.Errorf("failed to reassign products: %w", err)
		}
		result = &res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDistributor deletes a distributor by ID and recounts its salesman.
// Products keep their reference.
func (db *Database) DeleteDistributor(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		previous, err := deleteMember(ctx, tx, roster.SalesmanDistributors, id)
		if err != nil {
			return err
		}
		return recountOwners(ctx, tx, roster.SalesmanDistributors, previous)
	})
}
