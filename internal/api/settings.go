package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solutyics/sales-distributor-aturab/internal/models"
)

// GetSettings handles GET /settings. Returns {} when nothing has been saved.
func (h *Handler) GetSettings(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	s, err := h.store.GetSettings(ctx)
	if err != nil {
		respondStoreError(c, "Settings", "fetch", err)
		return
	}
	if s == nil || s.ID == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s)
}

// SaveSettings handles POST /settings
func (h *Handler) SaveSettings(c *gin.Context) {
	var s models.Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	id, created, err := h.store.SaveSettings(ctx, s)
	if err != nil {
		respondStoreError(c, "Settings", "save", err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Settings saved successfully", "setting_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully", "setting_id": id})
}
