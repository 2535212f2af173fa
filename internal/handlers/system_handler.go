package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterSystemRoutes(router gin.IRouter) {
	router.GET("/health", Health)
	router.Any("/dummy", Dummy)
}

// Health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Dummy answers with a canned body, used by the page to check the backend is up
// @Summary Connectivity check
// @Tags System
// @Produce json
// @Success 200 {object} DummyResponse
// @Failure 405 {string} string "Method not allowed"
// @Router /dummy [get]
func Dummy(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		methodNotAllowed(c, http.MethodGet)
		return
	}
	c.JSON(http.StatusOK, DummyResponse{
		UserID: 1,
		ID:     1,
		Title:  "Dummy Title",
		Body:   "This is a dummy response.",
	})
}
