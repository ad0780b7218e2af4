package middleware

import (
	"fmt"
	"net/http"

	"fv-simulator/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler(log *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"panic": fmt.Sprint(recovered),
		}).Error("[API] Recovered from panic")

		message := "Ocurrió un error inesperado. Intente de nuevo."
		if s, ok := recovered.(string); ok && gin.Mode() != gin.ReleaseMode {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
