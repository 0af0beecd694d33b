package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

// GetCustomers handles GET /customers
func (h *Handler) GetCustomers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customers, err := h.store.ListCustomers(ctx)
	if err != nil {
		respondStoreError(c, "Customers", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /customers/:id
func (h *Handler) GetCustomer(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customer, err := h.store.GetCustomer(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Customer", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func bindCustomer(c *gin.Context) (models.Customer, bool) {
	var cu models.Customer
	if err := c.ShouldBindJSON(&cu); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return cu, false
	}
	cu.Normalize()
	if err := cu.Validate(); err != nil {
		badRequest(c, err.Error())
		return cu, false
	}
	return cu, true
}

// CreateCustomer handles POST /customers
func (h *Handler) CreateCustomer(c *gin.Context) {
	cu, ok := bindCustomer(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.store.CreateCustomer(ctx, cu)
	if err != nil {
		respondStoreError(c, "Customer", "add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer added successfully!", "customer": created})
}

// UpdateCustomer handles PUT /customers/:id
func (h *Handler) UpdateCustomer(c *gin.Context) {
	cu, ok := bindCustomer(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.store.UpdateCustomer(ctx, c.Param("id"), cu); err != nil {
		respondStoreError(c, "Customer", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully!"})
}

// DeleteCustomer handles DELETE /customers/:id
func (h *Handler) DeleteCustomer(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.store.DeleteCustomer(ctx, c.Param("id")); err != nil {
		respondStoreError(c, "Customer", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully!"})
}
