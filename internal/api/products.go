package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

// GetProducts handles GET /products
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	products, err := h.store.ListProducts(ctx)
	if err != nil {
		respondStoreError(c, "Products", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	product, err := h.store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Product", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// bindProduct decodes, defaults and validates a product body
func bindProduct(c *gin.Context) (models.Product, bool) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return p, false
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		badRequest(c, err.Error())
		return p, false
	}
	return p, true
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	product, err := h.store.CreateProduct(ctx, p)
	if err != nil {
		respondStoreError(c, "Product", "add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": product})
}

// UpdateProduct handles PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	product, err := h.store.UpdateProduct(ctx, c.Param("id"), p)
	if err != nil {
		respondStoreError(c, "Product", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct handles DELETE /products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	id := c.Param("id")
	if err := h.store.DeleteProduct(ctx, id); err != nil {
		respondStoreError(c, "Product", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "product_id": id})
}
