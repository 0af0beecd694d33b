package db

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

// DashboardSummary gathers entity counts and low-stock products. The queries
// are independent and run concurrently on the pool.
func (db *Database) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var s models.DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	counts := []struct {
		dst   *int
		query string
	}{
		{&s.Products, `SELECT COUNT(*) FROM products`},
		{&s.Distributors, `SELECT COUNT(*) FROM distributors`},
		{&s.Customers, `SELECT COUNT(*) FROM customers`},
		{&s.Salesmen, `SELECT COUNT(*) FROM salesmen`},
		{&s.Unassigned.Customers, `SELECT COUNT(*) FROM customers WHERE salesman_id IS NULL`},
		{&s.Unassigned.Distributors, `SELECT COUNT(*) FROM distributors WHERE salesman_id IS NULL`},
		{&s.Unassigned.Products, `SELECT COUNT(*) FROM products WHERE distributor_id IS NULL`},
	}
	for _, c := range counts {
		g.Go(func() error {
			if err := db.Pool.QueryRow(gctx, c.query).Scan(c.dst); err != nil {
				return fmt.Errorf("dashboard count %q: %w", c.query, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		low, err := db.ListLowStockProducts(gctx, models.LowStockThreshold)
		if err != nil {
			return err
		}
		s.LowStock = low
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}
