package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

// GetSalesmanCustomers handles GET /salesmen/:id/customers
func (h *Handler) GetSalesmanCustomers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customers, err := h.store.ListCustomersBySalesman(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Customers", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(customers), "customers": customers})
}

// GetSalesmanDistributors handles GET /salesmen/:id/distributors
func (h *Handler) GetSalesmanDistributors(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	distributors, err := h.store.ListDistributorsBySalesman(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Distributors", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(distributors), "distributors": distributors})
}

// GetUnassignedCustomers handles GET /salesmen/customers/unassigned
func (h *Handler) GetUnassignedCustomers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customers, err := h.store.ListUnassignedCustomers(ctx)
	if err != nil {
		respondStoreError(c, "Unassigned customers", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(customers), "customers": customers})
}

// GetUnassignedDistributors handles GET /salesmen/distributors/unassigned
func (h *Handler) GetUnassignedDistributors(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	distributors, err := h.store.ListUnassignedDistributors(ctx)
	if err != nil {
		respondStoreError(c, "Unassigned distributors", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(distributors), "distributors": distributors})
}

// SaveCustomerAssignments handles PUT /salesmen/:id/customers
// Body: { "assignedCustomers": ["customer_id", ...] }
func (h *Handler) SaveCustomerAssignments(c *gin.Context) {
	var body struct {
		AssignedCustomers *[]string `json:"assignedCustomers"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.AssignedCustomers == nil {
		badRequest(c, "Invalid data format, expected array of Customer_IDs")
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.store.ReconcileSalesmanCustomers(ctx, c.Param("id"), *body.AssignedCustomers)
	h.metrics.ObserveReconcile(string(roster.SalesmanCustomers), err)
	if err != nil {
		respondStoreError(c, "Salesman", "assign customers to", err)
		return
	}
	msg := "Customer assignments saved successfully!"
	if len(roster.Normalize(*body.AssignedCustomers)) == 0 {
		msg = "Customer assignments cleared successfully!"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "count": res.Count})
}

// SaveDistributorAssignments handles PUT /salesmen/:id/distributors
// Body: { "assignedDistributors": ["distributor_id", ...] }
func (h *Handler) SaveDistributorAssignments(c *gin.Context) {
	var body struct {
		AssignedDistributors *[]string `json:"assignedDistributors"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.AssignedDistributors == nil {
		badRequest(c, "Invalid data format, expected array of Distributor_IDs")
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.store.ReconcileSalesmanDistributors(ctx, c.Param("id"), *body.AssignedDistributors)
	h.metrics.ObserveReconcile(string(roster.SalesmanDistributors), err)
	if err != nil {
		respondStoreError(c, "Salesman", "assign distributors to", err)
		return
	}
	msg := "Distributor assignments saved successfully!"
	if len(roster.Normalize(*body.AssignedDistributors)) == 0 {
		msg = "Distributor assignments cleared successfully!"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "count": res.Count})
}
