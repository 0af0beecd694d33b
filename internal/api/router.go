package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/logging"
	"github.com/solutyics/sales-distributor-aturab/internal/metrics"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	CORSAllowOrigin string
	Version         string
}

// NewRouter wires middleware and every route onto a fresh gin engine.
// m may be nil, in which case no metrics are recorded or served.
func NewRouter(handler *Handler, m *metrics.Metrics, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.CORSAllowOrigin))
	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", m.Handler())
	}

	// Health and readiness endpoints
	router.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ready", handler.Health)
	router.GET("/health", handler.Health)

	api := router.Group("/api")
	api.Use(handler.requireStore())
	{
		api.GET("/products", handler.GetProducts)
		api.POST("/products", handler.CreateProduct)
		api.GET("/products/:id", handler.GetProduct)
		api.PUT("/products/:id", handler.UpdateProduct)
		api.DELETE("/products/:id", handler.DeleteProduct)

		api.GET("/distributors", handler.GetDistributors)
		api.POST("/distributors", handler.CreateDistributor)
		api.GET("/distributors/:id", handler.GetDistributor)
		api.PUT("/distributors/:id", handler.UpdateDistributor)
		api.DELETE("/distributors/:id", handler.DeleteDistributor)
		api.GET("/distributors/:id/products", handler.GetDistributorProducts)

		api.GET("/customers", handler.GetCustomers)
		api.POST("/customers", handler.CreateCustomer)
		api.GET("/customers/:id", handler.GetCustomer)
		api.PUT("/customers/:id", handler.UpdateCustomer)
		api.DELETE("/customers/:id", handler.DeleteCustomer)

		// Static segments take precedence over :id
		api.GET("/salesmen/customers/unassigned", handler.GetUnassignedCustomers)
		api.GET("/salesmen/distributors/unassigned", handler.GetUnassignedDistributors)

		api.GET("/salesmen", handler.GetSalesmen)
		api.POST("/salesmen", handler.CreateSalesman)
		api.GET("/salesmen/:id", handler.GetSalesman)
		api.PUT("/salesmen/:id", handler.UpdateSalesman)
		api.DELETE("/salesmen/:id", handler.DeleteSalesman)
		api.GET("/salesmen/:id/customers", handler.GetSalesmanCustomers)
		api.PUT("/salesmen/:id/customers", handler.SaveCustomerAssignments)
		api.GET("/salesmen/:id/distributors", handler.GetSalesmanDistributors)
		api.PUT("/salesmen/:id/distributors", handler.SaveDistributorAssignments)

		api.GET("/settings", handler.GetSettings)
		api.POST("/settings", handler.SaveSettings)

		api.GET("/dashboard", handler.GetDashboard)
	}

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "sales-service",
			"version": opts.Version,
			"status":  "running",
		})
	})

	return router
}
