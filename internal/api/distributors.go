package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

// GetDistributors handles GET /distributors
func (h *Handler) GetDistributors(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	distributors, err := h.store.ListDistributors(ctx)
	if err != nil {
		respondStoreError(c, "Distributors", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, distributors)
}

// GetDistributor handles GET /distributors/:id
func (h *Handler) GetDistributor(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	d, err := h.store.GetDistributor(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Distributor", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetDistributorProducts handles GET /distributors/:id/products
func (h *Handler) GetDistributorProducts(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	products, err := h.store.ListProductsByDistributor(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Products", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// CreateDistributor handles POST /distributors
func (h *Handler) CreateDistributor(c *gin.Context) {
	var d models.Distributor
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.store.CreateDistributor(ctx, d)
	if err != nil {
		respondStoreError(c, "Distributor", "add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Distributor added successfully", "distributor": created})
}

// UpdateDistributor handles PUT /distributors/:id
// Body may carry "assigned_products": [product_id, ...] to replace the product roster.
func (h *Handler) UpdateDistributor(c *gin.Context) {
	var body models.DistributorUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	body.Distributor.Normalize()
	if err := body.Distributor.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.store.UpdateDistributor(ctx, c.Param("id"), body.Distributor, body.AssignedProducts)
	if body.AssignedProducts != nil {
		h.metrics.ObserveReconcile(string(roster.DistributorProducts), err)
	}
	if err != nil {
		respondStoreError(c, "Distributor", "update", err)
		return
	}
	resp := gin.H{"message": "Distributor updated successfully!"}
	if res != nil {
		resp["assigned_products"] = res.Count
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteDistributor handles DELETE /distributors/:id
func (h *Handler) DeleteDistributor(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.store.DeleteDistributor(ctx, c.Param("id")); err != nil {
		respondStoreError(c, "Distributor", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Distributor deleted successfully"})
}
