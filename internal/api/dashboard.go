package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard handles GET /dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	summary, err := h.store.DashboardSummary(ctx)
	if err != nil {
		respondStoreError(c, "Dashboard", "load", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
