package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

// PreferenceHandler serves the persisted theme flag
type PreferenceHandler struct {
	preferenceService preference.PreferenceService
	logger            *Logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService preference.PreferenceService, logger *Logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

func (h *PreferenceHandler) RegisterRoutes(router gin.IRouter) {
	prefs := router.Group("/preferences/:clientId")
	{
		prefs.GET("/theme", h.GetTheme)
		prefs.PUT("/theme", h.PutTheme)
	}
}

// GetTheme handles reading the theme flag
// @Summary Get theme preference
// @Description Dark mode flag for a client, false when never set
// @Tags Preferences
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} preference.ThemePreference "Theme preference"
// @Failure 400 {object} ErrorResponse "Invalid client ID"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /preferences/{clientId}/theme [get]
func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	pref, err := h.preferenceService.Theme(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// PutTheme handles storing the theme flag
// @Summary Set theme preference
// @Tags Preferences
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body preference.ThemePreference true "Theme preference"
// @Success 200 {object} preference.ThemePreference "Stored preference"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /preferences/{clientId}/theme [put]
func (h *PreferenceHandler) PutTheme(c *gin.Context) {
	var pref preference.ThemePreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	if err := h.preferenceService.SetTheme(c.Request.Context(), c.Param("clientId"), pref); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *PreferenceHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, preference.ErrInvalidClientID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid client ID"})
		return
	}
	h.logger.Errorf("preference error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
