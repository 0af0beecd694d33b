package api

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solutyics/sales-distributor-aturab/internal/db"
	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
	"github.com/solutyics/sales-distributor-aturab/internal/roster/rostertest"
)

// memStore is an in-memory Store. Reference columns live in a rostertest.Memory
// so reconciliation runs the real algorithm; entity rows are synced from it on read.
type memStore struct {
	mu sync.Mutex

	// err, when set, is returned by every operation
	err error

	products     map[string]models.Product
	distributors map[string]models.Distributor
	customers    map[string]models.Customer
	salesmen     map[string]models.Salesman
	settings     []models.Settings

	refs *rostertest.Memory
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		products:     map[string]models.Product{},
		distributors: map[string]models.Distributor{},
		customers:    map[string]models.Customer{},
		salesmen:     map[string]models.Salesman{},
		refs:         rostertest.New(),
	}
}

func dup(constraint, field string) error {
	return &db.DuplicateError{Constraint: constraint, Field: field, Err: errors.New("duplicate key value")}
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m *memStore) Health(ctx context.Context) error { return m.err }

// sync copies references and counters from refs onto the entity rows
func (m *memStore) sync() {
	for id, c := range m.customers {
		c.SalesmanID = ptr(m.refs.Owner(roster.SalesmanCustomers, id))
		m.customers[id] = c
	}
	for id, d := range m.distributors {
		d.SalesmanID = ptr(m.refs.Owner(roster.SalesmanDistributors, id))
		d.AssignedProductCount = m.refs.Counter(roster.DistributorProducts, id)
		m.distributors[id] = d
	}
	for id, p := range m.products {
		p.DistributorID = ptr(m.refs.Owner(roster.DistributorProducts, id))
		m.products[id] = p
	}
	for id, s := range m.salesmen {
		s.AssignedCustomerCount = m.refs.Counter(roster.SalesmanCustomers, id)
		s.AssignedDistributorCount = m.refs.Counter(roster.SalesmanDistributors, id)
		m.salesmen[id] = s
	}
}

func sortedValues[T any](in map[string]T, keep func(T) bool, key func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// setRef points a member at owner and recounts the old and new owners
func (m *memStore) setRef(ctx context.Context, rel roster.Relation, memberID string, owner *string) {
	previous := m.refs.Owner(rel, memberID)
	m.refs.AddMember(rel, memberID, deref(owner))
	m.recount(ctx, rel, previous, deref(owner))
}

// dropRef forgets a deleted member and recounts its owner
func (m *memStore) dropRef(ctx context.Context, rel roster.Relation, memberID string) {
	previous := m.refs.Owner(rel, memberID)
	m.refs.RemoveMember(rel, memberID)
	m.recount(ctx, rel, previous)
}

func (m *memStore) recount(ctx context.Context, rel roster.Relation, owners ...string) {
	for _, o := range owners {
		if o != "" {
			_, _ = roster.Recount(ctx, m.refs, rel, o)
		}
	}
}

// Products

func (m *memStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.products, nil, func(p models.Product) string { return p.Name }), nil
}

func (m *memStore) ListProductsByDistributor(ctx context.Context, distributorID string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.products, func(p models.Product) bool { return deref(p.DistributorID) == distributorID },
		func(p models.Product) string { return p.Name }), nil
}

func (m *memStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	p, ok := m.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) skuTaken(sku, except string) bool {
	for id, p := range m.products {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}

func (m *memStore) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.skuTaken(p.SKU, "") {
		return nil, dup("products_sku_key", "sku")
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	m.products[p.ID] = p
	m.setRef(ctx, roster.DistributorProducts, p.ID, p.DistributorID)
	return &p, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, id string, p models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	old, ok := m.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if m.skuTaken(p.SKU, id) {
		return nil, dup("products_sku_key", "sku")
	}
	p.ID, p.CreatedAt = id, old.CreatedAt
	m.products[id] = p
	m.setRef(ctx, roster.DistributorProducts, id, p.DistributorID)
	return &p, nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.products, id)
	m.dropRef(ctx, roster.DistributorProducts, id)
	return nil
}

// Distributors

func (m *memStore) ListDistributors(ctx context.Context) ([]models.Distributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.distributors, nil, func(d models.Distributor) string { return d.Name }), nil
}

func (m *memStore) GetDistributor(ctx context.Context, id string) (*models.Distributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	d, ok := m.distributors[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &d, nil
}

func (m *memStore) CreateDistributor(ctx context.Context, d models.Distributor) (*models.Distributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	m.distributors[d.ID] = d
	m.refs.AddOwner(roster.DistributorProducts, d.ID, 0)
	m.setRef(ctx, roster.SalesmanDistributors, d.ID, d.SalesmanID)
	return &d, nil
}

func (m *memStore) UpdateDistributor(ctx context.Context, id string, d models.Distributor, assignedProducts *[]string) (*roster.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	old, ok := m.distributors[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	d.ID, d.CreatedAt = id, old.CreatedAt
	m.distributors[id] = d
	m.setRef(ctx, roster.SalesmanDistributors, id, d.SalesmanID)
	if assignedProducts == nil {
		return nil, nil
	}
	res, err := m.reconcile(ctx, roster.DistributorProducts, id, *assignedProducts)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *memStore) DeleteDistributor(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.distributors[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.distributors, id)
	m.dropRef(ctx, roster.SalesmanDistributors, id)
	return nil
}

// Customers

func (m *memStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return m.listCustomers(nil)
}

func (m *memStore) ListCustomersBySalesman(ctx context.Context, salesmanID string) ([]models.Customer, error) {
	return m.listCustomers(func(c models.Customer) bool { return deref(c.SalesmanID) == salesmanID })
}

func (m *memStore) ListUnassignedCustomers(ctx context.Context) ([]models.Customer, error) {
	return m.listCustomers(func(c models.Customer) bool { return c.SalesmanID == nil })
}

func (m *memStore) listCustomers(keep func(models.Customer) bool) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.customers, keep, func(c models.Customer) string { return c.Name }), nil
}

func (m *memStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	c, ok := m.customers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) customerEmailTaken(email, except string) bool {
	if email == "" {
		return false
	}
	for id, c := range m.customers {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func (m *memStore) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.customerEmailTaken(c.Email, "") {
		return nil, dup("customers_email_key", "email")
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	m.customers[c.ID] = c
	m.setRef(ctx, roster.SalesmanCustomers, c.ID, c.SalesmanID)
	return &c, nil
}

func (m *memStore) UpdateCustomer(ctx context.Context, id string, c models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.customers[id]
	if !ok {
		return db.ErrNotFound
	}
	if m.customerEmailTaken(c.Email, id) {
		return dup("customers_email_key", "email")
	}
	c.ID, c.CreatedAt = id, old.CreatedAt
	m.customers[id] = c
	m.setRef(ctx, roster.SalesmanCustomers, id, c.SalesmanID)
	return nil
}

func (m *memStore) DeleteCustomer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.customers[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.customers, id)
	m.dropRef(ctx, roster.SalesmanCustomers, id)
	return nil
}

// Salesmen

func (m *memStore) ListSalesmen(ctx context.Context) ([]models.Salesman, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.salesmen, nil, func(s models.Salesman) string { return s.Name }), nil
}

func (m *memStore) GetSalesman(ctx context.Context, id string) (*models.Salesman, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	s, ok := m.salesmen[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) salesmanEmailTaken(email, except string) bool {
	for id, s := range m.salesmen {
		if id != except && s.Email == email {
			return true
		}
	}
	return false
}

func (m *memStore) CreateSalesman(ctx context.Context, s models.Salesman) (*models.Salesman, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.salesmanEmailTaken(s.Email, "") {
		return nil, dup("salesmen_email_key", "email")
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	s.AssignedCustomerCount, s.AssignedDistributorCount = 0, 0
	m.salesmen[s.ID] = s
	m.refs.AddOwner(roster.SalesmanCustomers, s.ID, 0)
	m.refs.AddOwner(roster.SalesmanDistributors, s.ID, 0)
	return &s, nil
}

func (m *memStore) UpdateSalesman(ctx context.Context, id string, s models.Salesman) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.salesmen[id]
	if !ok {
		return db.ErrNotFound
	}
	if m.salesmanEmailTaken(s.Email, id) {
		return dup("salesmen_email_key", "email")
	}
	s.ID, s.CreatedAt = id, old.CreatedAt
	m.salesmen[id] = s
	return nil
}

func (m *memStore) DeleteSalesman(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.salesmen[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.salesmen, id)
	return nil
}

// Rosters

func (m *memStore) ListDistributorsBySalesman(ctx context.Context, salesmanID string) ([]models.Distributor, error) {
	return m.listDistributors(func(d models.Distributor) bool { return deref(d.SalesmanID) == salesmanID })
}

func (m *memStore) ListUnassignedDistributors(ctx context.Context) ([]models.Distributor, error) {
	return m.listDistributors(func(d models.Distributor) bool { return d.SalesmanID == nil })
}

func (m *memStore) listDistributors(keep func(models.Distributor) bool) ([]models.Distributor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	return sortedValues(m.distributors, keep, func(d models.Distributor) string { return d.Name }), nil
}

func (m *memStore) ReconcileSalesmanCustomers(ctx context.Context, salesmanID string, customerIDs []string) (roster.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return roster.Result{}, m.err
	}
	return m.reconcile(ctx, roster.SalesmanCustomers, salesmanID, customerIDs)
}

func (m *memStore) ReconcileSalesmanDistributors(ctx context.Context, salesmanID string, distributorIDs []string) (roster.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return roster.Result{}, m.err
	}
	return m.reconcile(ctx, roster.SalesmanDistributors, salesmanID, distributorIDs)
}

// reconcile models the store transaction: any failure restores the prior state
func (m *memStore) reconcile(ctx context.Context, rel roster.Relation, ownerID string, ids []string) (roster.Result, error) {
	rollback := m.refs.Snapshot()
	res, err := roster.Reconcile(ctx, m.refs, rel, ownerID, ids)
	if err != nil {
		rollback()
		return roster.Result{}, err
	}
	return res, nil
}

// Settings

func (m *memStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if len(m.settings) == 0 {
		return &models.Settings{}, nil
	}
	s := m.settings[len(m.settings)-1]
	return &s, nil
}

func (m *memStore) SaveSettings(ctx context.Context, s models.Settings) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	now := time.Now().UTC()
	if len(m.settings) == 0 {
		s.ID = uuid.NewString()
		s.CreatedAt, s.UpdatedAt = &now, &now
		m.settings = append(m.settings, s)
		return s.ID, true, nil
	}
	last := &m.settings[len(m.settings)-1]
	last.CompanyName, last.Timezone, last.Currency = s.CompanyName, s.Timezone, s.Currency
	last.UpdatedAt = &now
	return last.ID, false, nil
}

// Dashboard

func (m *memStore) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sync()
	sum := &models.DashboardSummary{
		Products:     len(m.products),
		Distributors: len(m.distributors),
		Customers:    len(m.customers),
		Salesmen:     len(m.salesmen),
		LowStock:     []models.Product{},
	}
	for _, c := range m.customers {
		if c.SalesmanID == nil {
			sum.Unassigned.Customers++
		}
	}
	for _, d := range m.distributors {
		if d.SalesmanID == nil {
			sum.Unassigned.Distributors++
		}
	}
	for _, p := range m.products {
		if p.DistributorID == nil {
			sum.Unassigned.Products++
		}
	}
	sum.LowStock = sortedValues(m.products, func(p models.Product) bool { return p.Stock <= models.LowStockThreshold },
		func(p models.Product) string { return p.Name })
	return sum, nil
}
