// Package roster keeps a many-to-one assignment (customers or distributors to
// a salesman, products to a distributor) equal to a caller-supplied target set
// and refreshes the owner's denormalized member counter.
package roster

import (
	"context"
	"fmt"
	"strings"
)

// Relation identifies which member table points at which owner.
type Relation string

const (
	SalesmanCustomers    Relation = "salesman_customers"
	SalesmanDistributors Relation = "salesman_distributors"
	DistributorProducts  Relation = "distributor_products"
)

// Tx is the set of store operations a reconciliation needs. All calls of one
// Reconcile run against the same Tx, which the caller commits or rolls back.
type Tx interface {
	// LockOwner takes a row lock on the owner. A missing owner is not an error.
	LockOwner(ctx context.Context, rel Relation, ownerID string) error
	// Members returns the ids of members currently pointing at the owner.
	Members(ctx context.Context, rel Relation, ownerID string) ([]string, error)
	// Detach clears the owner reference on the given members.
	Detach(ctx context.Context, rel Relation, ownerID string, memberIDs []string) (int64, error)
	// Owners returns the distinct owners, other than ownerID, of the given members.
	Owners(ctx context.Context, rel Relation, ownerID string, memberIDs []string) ([]string, error)
	// Attach points the given members at the owner. Unknown ids are ignored.
	Attach(ctx context.Context, rel Relation, ownerID string, memberIDs []string) (int64, error)
	// CountMembers returns the number of members pointing at the owner.
	CountMembers(ctx context.Context, rel Relation, ownerID string) (int, error)
	// SetCounter stores n in the owner's denormalized counter.
	SetCounter(ctx context.Context, rel Relation, ownerID string, n int) error
}

// Result describes the outcome of a reconciliation
type Result struct {
	Count    int   `json:"count"`
	Attached int64 `json:"attached"`
	Detached int64 `json:"detached"`
	// Recounted lists other owners whose members were taken over
	Recounted []string `json:"recounted,omitempty"`
}

// Reconcile makes the members of ownerID equal to targetIDs. Members not in
// targetIDs are detached, new ones attached, and the owner's counter is set
// to the re-queried member count. Members taken over from another owner have
// that owner's counter refreshed as well.
func Reconcile(ctx context.Context, tx Tx, rel Relation, ownerID string, targetIDs []string) (Result, error) {
	var res Result

	if err := tx.LockOwner(ctx, rel, ownerID); err != nil {
		return res, fmt.Errorf("lock owner: %w", err)
	}

	current, err := tx.Members(ctx, rel, ownerID)
	if err != nil {
		return res, fmt.Errorf("list members: %w", err)
	}

	detach, attach := Diff(current, Normalize(targetIDs))

	if len(detach) > 0 {
		if res.Detached, err = tx.Detach(ctx, rel, ownerID, detach); err != nil {
			return res, fmt.Errorf("detach members: %w", err)
		}
	}
	var previous []string
	if len(attach) > 0 {
		if previous, err = tx.Owners(ctx, rel, ownerID, attach); err != nil {
			return res, fmt.Errorf("list previous owners: %w", err)
		}
		if res.Attached, err = tx.Attach(ctx, rel, ownerID, attach); err != nil {
			return res, fmt.Errorf("attach members: %w", err)
		}
	}

	if res.Count, err = Recount(ctx, tx, rel, ownerID); err != nil {
		return res, err
	}
	for _, other := range previous {
		if _, err := Recount(ctx, tx, rel, other); err != nil {
			return res, err
		}
	}
	res.Recounted = previous
	return res, nil
}

// Recount stores the queried member count of ownerID as its counter and returns it
func Recount(ctx context.Context, tx Tx, rel Relation, ownerID string) (int, error) {
	n, err := tx.CountMembers(ctx, rel, ownerID)
	if err != nil {
		return 0, fmt.Errorf("count members of %s: %w", ownerID, err)
	}
	if err := tx.SetCounter(ctx, rel, ownerID, n); err != nil {
		return 0, fmt.Errorf("set counter of %s: %w", ownerID, err)
	}
	return n, nil
}

// Normalize trims ids, drops blanks and removes duplicates keeping first occurrence order.
func Normalize(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Diff returns the ids in current but not in target, and those in target but not in current.
func Diff(current, target []string) (detach, attach []string) {
	inTarget := make(map[string]struct{}, len(target))
	for _, id := range target {
		inTarget[id] = struct{}{}
	}
	inCurrent := make(map[string]struct{}, len(current))
	for _, id := range current {
		inCurrent[id] = struct{}{}
		if _, ok := inTarget[id]; !ok {
			detach = append(detach, id)
		}
	}
	for _, id := range target {
		if _, ok := inCurrent[id]; !ok {
			attach = append(attach, id)
		}
	}
	return detach, attach
}
