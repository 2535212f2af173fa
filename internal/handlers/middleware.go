package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

const (
	corsMethods           = "POST, GET, OPTIONS"
	corsPreferenceMethods = "GET, PUT, OPTIONS"
)

// CORSMiddleware opens the API to any origin. Pre-flight requests are
// answered here and never reach a handler.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", allowedMethods(c.Request.URL.Path))
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// the theme endpoints are the only ones written with PUT
func allowedMethods(path string) string {
	if strings.HasPrefix(path, "/preferences/") {
		return corsPreferenceMethods
	}
	return corsMethods
}

// RequestLoggerMiddleware logs incoming requests
func RequestLoggerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logger.Infof("[%s] %s %s %d %s %s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
		)
		return ""
	})
}

// ErrorHandlerMiddleware handles panics and errors
func ErrorHandlerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorf("Panic recovered: %v", recovered)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	})
}

// methodNotAllowed answers with 405 and the Allow header.
func methodNotAllowed(c *gin.Context, allow string) {
	c.Header("Allow", allow)
	c.String(http.StatusMethodNotAllowed, "Method %s Not Allowed", c.Request.Method)
}
