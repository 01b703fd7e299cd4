package server

import (
	"time"

	"auction-settlement/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"route":   c.FullPath(),
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics" {
		utils.Debug("HTTP Request", fields)
		return
	}
	utils.Info("HTTP Request", fields)
}
