package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/db"
	"github.com/solutyics/sales-distributor-aturab/internal/logging"
	"github.com/solutyics/sales-distributor-aturab/internal/metrics"
	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

// Store is the persistence surface used by the handlers. *db.Database implements it.
type Store interface {
	Health(ctx context.Context) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByDistributor(ctx context.Context, distributorID string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListDistributors(ctx context.Context) ([]models.Distributor, error)
	GetDistributor(ctx context.Context, id string) (*models.Distributor, error)
	CreateDistributor(ctx context.Context, d models.Distributor) (*models.Distributor, error)
	UpdateDistributor(ctx context.Context, id string, d models.Distributor, assignedProducts *[]string) (*roster.Result, error)
	DeleteDistributor(ctx context.Context, id string) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, c models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	ListSalesmen(ctx context.Context) ([]models.Salesman, error)
	GetSalesman(ctx context.Context, id string) (*models.Salesman, error)
	CreateSalesman(ctx context.Context, s models.Salesman) (*models.Salesman, error)
	UpdateSalesman(ctx context.Context, id string, s models.Salesman) error
	DeleteSalesman(ctx context.Context, id string) error

	ListCustomersBySalesman(ctx context.Context, salesmanID string) ([]models.Customer, error)
	ListDistributorsBySalesman(ctx context.Context, salesmanID string) ([]models.Distributor, error)
	ListUnassignedCustomers(ctx context.Context) ([]models.Customer, error)
	ListUnassignedDistributors(ctx context.Context) ([]models.Distributor, error)
	ReconcileSalesmanCustomers(ctx context.Context, salesmanID string, customerIDs []string) (roster.Result, error)
	ReconcileSalesmanDistributors(ctx context.Context, salesmanID string, distributorIDs []string) (roster.Result, error)

	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) (id string, created bool, err error)

	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
}

var _ Store = (*db.Database)(nil)

// requestTimeout bounds a single handler's store work
const requestTimeout = 10 * time.Second

// Handler holds the store and provides HTTP handlers
type Handler struct {
	store   Store
	metrics *metrics.Metrics
}

// NewHandler creates a new handler instance. m may be nil.
func NewHandler(store Store, m *metrics.Metrics) *Handler {
	return &Handler{store: store, metrics: m}
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// Health handles GET /health and /ready
func (h *Handler) Health(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "not initialized"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Health(ctx); err != nil {
		logging.LogKV("warn", "health check failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
}

// respondStoreError maps store errors to status codes. Unexpected errors are
// logged and answered with a generic message; driver detail never reaches the client.
func respondStoreError(c *gin.Context, entity, action string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": entity + " not found"})
	case errors.Is(err, db.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"message": duplicateMessage(db.DuplicateField(err))})
	default:
		_ = c.Error(err)
		logging.LogKV("error", "store error", map[string]interface{}{
			"entity": entity,
			"action": action,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("Failed to %s %s", action, entityLower(entity))})
	}
}

func duplicateMessage(field string) string {
	switch field {
	case "email":
		return "Email already exists! Please use a different email."
	case "sku":
		return "SKU already exists! Please use a different SKU."
	default:
		return "Record already exists"
	}
}

func entityLower(entity string) string {
	if entity == "" {
		return entity
	}
	return strings.ToLower(entity[:1]) + entity[1:]
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
