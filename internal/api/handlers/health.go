package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health for load balancers and uptime checks.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
