// File: internal/middleware/error.go
package middleware

import (
	"net/http"
	"strings"

	"docsign_web/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Errors are rendered as JSON only when no response has been written yet.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			ginErr := c.Errors.Last()
			apiErr, isAPIErr := common.IsAPIError(ginErr.Err)
			if !isAPIErr {
				logger.Error("Unhandled application error",
					zap.Error(ginErr.Err),
					zap.String("path", c.Request.URL.Path),
					zap.Any("meta", ginErr.Meta),
					zap.String("request_id", common.GetRequestIDFromContext(c)),
				)
				apiErr = common.ErrInternalServer.WithDetails("An unexpected error occurred.")
				if gin.Mode() == gin.DebugMode {
					apiErr.Details = ginErr.Err.Error()
				}
			}
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			}
			return
		}

		if c.Writer.Written() || !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			return
		}
		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
		case http.StatusMethodNotAllowed:
			methodNotAllowedErr := common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
			c.AbortWithStatusJSON(methodNotAllowedErr.StatusCode, methodNotAllowedErr)
		}
	}
}
