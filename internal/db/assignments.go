package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

// relationTables names the SQL objects behind a roster relation
type relationTables struct {
	Member       string // member table
	MemberKey    string // member primary key
	OwnerRef     string // member column referencing the owner
	Owner        string // owner table
	OwnerKey     string // owner primary key
	OwnerCounter string // owner's denormalized member count
}

var relations = map[roster.Relation]relationTables{
	roster.SalesmanCustomers: {
		Member: "customers", MemberKey: "customer_id", OwnerRef: "salesman_id",
		Owner: "salesmen", OwnerKey: "salesman_id", OwnerCounter: "assigned_customer_count",
	},
	roster.SalesmanDistributors: {
		Member: "distributors", MemberKey: "distributor_id", OwnerRef: "salesman_id",
		Owner: "salesmen", OwnerKey: "salesman_id", OwnerCounter: "assigned_distributor_count",
	},
	roster.DistributorProducts: {
		Member: "products", MemberKey: "product_id", OwnerRef: "distributor_id",
		Owner: "distributors", OwnerKey: "distributor_id", OwnerCounter: "assigned_product_count",
	},
}

func tablesFor(rel roster.Relation) (relationTables, error) {
	t, ok := relations[rel]
	if !ok {
		return t, fmt.Errorf("unknown roster relation %q", rel)
	}
	return t, nil
}

// ReconcileSalesmanCustomers replaces a salesman's customer roster
func (db *Database) ReconcileSalesmanCustomers(ctx context.Context, salesmanID string, customerIDs []string) (roster.Result, error) {
	return db.reconcile(ctx, roster.SalesmanCustomers, salesmanID, customerIDs)
}

// ReconcileSalesmanDistributors replaces a salesman's distributor roster
func (db *Database) ReconcileSalesmanDistributors(ctx context.Context, salesmanID string, distributorIDs []string) (roster.Result, error) {
	return db.reconcile(ctx, roster.SalesmanDistributors, salesmanID, distributorIDs)
}

func (db *Database) reconcile(ctx context.Context, rel roster.Relation, ownerID string, ids []string) (roster.Result, error) {
	var res roster.Result
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		res, err = roster.Reconcile(ctx, rosterTx{tx}, rel, ownerID, ids)
		return err
	})
	return res, err
}

// rosterTx runs roster operations inside a pgx transaction
type rosterTx struct {
	tx pgx.Tx
}

func (r rosterTx) LockOwner(ctx context.Context, rel roster.Relation, ownerID string) error {
	t, err := tablesFor(rel)
	if err != nil {
		return err
	}
	rows, err := r.tx.Query(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE`, t.Owner, t.OwnerKey), ownerID)
	if err != nil {
		return err
	}
	rows.Close()
	return rows.Err()
}

func (r rosterTx) Members(ctx context.Context, rel roster.Relation, ownerID string) ([]string, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return nil, err
	}
	rows, err := r.tx.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s FOR UPDATE`, t.MemberKey, t.Member, t.OwnerRef, t.MemberKey),
		ownerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r rosterTx) Detach(ctx context.Context, rel roster.Relation, ownerID string, ids []string) (int64, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return 0, err
	}
	cmd, err := r.tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1 AND %s = ANY($2)`, t.Member, t.OwnerRef, t.OwnerRef, t.MemberKey),
		ownerID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r rosterTx) Owners(ctx context.Context, rel roster.Relation, ownerID string, ids []string) ([]string, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return nil, err
	}
	rows, err := r.tx.Query(ctx,
		fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s = ANY($2) AND %s IS NOT NULL AND %s <> $1 ORDER BY 1`,
			t.OwnerRef, t.Member, t.MemberKey, t.OwnerRef, t.OwnerRef),
		ownerID, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r rosterTx) Attach(ctx context.Context, rel roster.Relation, ownerID string, ids []string) (int64, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return 0, err
	}
	cmd, err := r.tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = ANY($2)`, t.Member, t.OwnerRef, t.MemberKey),
		ownerID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r rosterTx) CountMembers(ctx context.Context, rel roster.Relation, ownerID string) (int, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t.Member, t.OwnerRef), ownerID).Scan(&n)
	return n, err
}

func (r rosterTx) SetCounter(ctx context.Context, rel roster.Relation, ownerID string, n int) error {
	t, err := tablesFor(rel)
	if err != nil {
		return err
	}
	_, err = r.tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, t.Owner, t.OwnerCounter, t.OwnerKey), ownerID, n)
	return err
}

var _ roster.Tx = rosterTx{}

// lockOwnerRef returns a member's current owner reference, locking the row.
// A missing member is ErrNotFound.
func lockOwnerRef(ctx context.Context, tx pgx.Tx, rel roster.Relation, memberID string) (*string, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return nil, err
	}
	var owner *string
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, t.OwnerRef, t.Member, t.MemberKey), memberID,
	).Scan(&owner)
	if err != nil {
		return nil, classify(err)
	}
	return owner, nil
}

// deleteMember removes a member row and returns the owner it pointed at
func deleteMember(ctx context.Context, tx pgx.Tx, rel roster.Relation, memberID string) (*string, error) {
	t, err := tablesFor(rel)
	if err != nil {
		return nil, err
	}
	var owner *string
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`, t.Member, t.MemberKey, t.OwnerRef), memberID,
	).Scan(&owner)
	if err != nil {
		return nil, classify(err)
	}
	return owner, nil
}

// recountOwners refreshes the counter of every distinct non-empty owner
func recountOwners(ctx context.Context, tx pgx.Tx, rel roster.Relation, owners ...*string) error {
	seen := make(map[string]bool, len(owners))
	for _, o := range owners {
		if o == nil || *o == "" || seen[*o] {
			continue
		}
		seen[*o] = true
		if _, err := roster.Recount(ctx, rosterTx{tx}, rel, *o); err != nil {
			return fmt.Errorf("failed to recount %s: %w", rel, err)
		}
	}
	return nil
}
