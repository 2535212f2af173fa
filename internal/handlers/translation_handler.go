package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

const upstreamFailureMessage = "Failed to get a valid response from the completion service"

// TranslationHandler is the proxy between the page and the completion service
type TranslationHandler struct {
	translationService translation.TranslationService
	logger             *Logger.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(translationService translation.TranslationService, logger *Logger.Logger) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
		logger:             logger,
	}
}

// RegisterRoutes binds every method so anything but POST gets a 405.
// OPTIONS never gets here, CORSMiddleware answers it.
func (h *TranslationHandler) RegisterRoutes(router gin.IRouter) {
	router.Any("/translate", h.Translate)
}

// Translate handles a translation request
// @Summary Translate text
// @Description Builds a translation instruction and relays it to the completion service
// @Tags Translation
// @Accept json
// @Produce json
// @Param request body TranslationRequest true "Text, languages and tone"
// @Success 200 {object} TranslationResponse "Translated text"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 405 {string} string "Method not allowed"
// @Failure 500 {object} ErrorResponse "Completion service failure"
// @Router /translate [post]
func (h *TranslationHandler) Translate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		methodNotAllowed(c, http.MethodPost)
		return
	}

	var req translation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	out, err := h.translationService.Translate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, translation.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request data",
				Details: err.Error(),
			})
		default:
			h.logger.Errorf("translate error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: upstreamFailureMessage})
		}
		return
	}

	c.JSON(http.StatusOK, translation.Response{Translation: out})
}
