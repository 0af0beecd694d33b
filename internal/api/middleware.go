package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the admin front end to call the API. origins is a
// comma-separated list; empty or "*" allows any origin. Listed origins must
// carry an http:// or https:// scheme.
func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	allowed := splitOrigins(origins)
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}
	return cors.New(cfg)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// requireStore answers 503 while the database is unavailable
func (h *Handler) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.store == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Database unavailable"})
			return
		}
		c.Next()
	}
}
