package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

// GetSalesmen handles GET /salesmen
func (h *Handler) GetSalesmen(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	salesmen, err := h.store.ListSalesmen(ctx)
	if err != nil {
		respondStoreError(c, "Salesmen", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, salesmen)
}

// GetSalesman handles GET /salesmen/:id
func (h *Handler) GetSalesman(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.store.GetSalesman(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, "Salesman", "fetch", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func bindSalesman(c *gin.Context) (models.Salesman, bool) {
	var s models.Salesman
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return s, false
	}
	// Presence is checked on the submitted region; an unknown value then falls back.
	if err := s.Validate(); err != nil {
		badRequest(c, err.Error())
		return s, false
	}
	s.Normalize()
	return s, true
}

// CreateSalesman handles POST /salesmen
func (h *Handler) CreateSalesman(c *gin.Context) {
	s, ok := bindSalesman(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	created, err := h.store.CreateSalesman(ctx, s)
	if err != nil {
		respondStoreError(c, "Salesman", "add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Salesman added successfully!", "salesman": created})
}

// UpdateSalesman handles PUT /salesmen/:id
func (h *Handler) UpdateSalesman(c *gin.Context) {
	s, ok := bindSalesman(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.store.UpdateSalesman(ctx, c.Param("id"), s); err != nil {
		respondStoreError(c, "Salesman", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salesman updated successfully!"})
}

// DeleteSalesman handles DELETE /salesmen/:id
func (h *Handler) DeleteSalesman(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.store.DeleteSalesman(ctx, c.Param("id")); err != nil {
		respondStoreError(c, "Salesman", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salesman deleted successfully!"})
}
