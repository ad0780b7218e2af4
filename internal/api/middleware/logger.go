package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger writes one structured line per request.
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		entry := log.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"client_ip": c.ClientIP(),
			"bytes":     c.Writer.Size(),
		})
		if id := c.Param("id"); id != "" {
			entry = entry.WithField("session", id)
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("[API] Request")
		case status >= 400:
			entry.Warn("[API] Request")
		default:
			entry.Info("[API] Request")
		}
	}
}
