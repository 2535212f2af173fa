package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xpanvictor/linguavox/docs"
	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/internal/handlers"
	"github.com/xpanvictor/linguavox/internal/handlers/websocket"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

//go:embed web/index.html
var indexPage []byte

type Dependencies struct {
	TranslationService translation.TranslationService
	PreferenceService  preference.PreferenceService
	Translator         translate.Translator
	Logger             *Logger.Logger
	Configs            *config.Settings
}

func NewServerDependencies(
	translationService translation.TranslationService,
	preferenceService preference.PreferenceService,
	translator translate.Translator,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		TranslationService: translationService,
		PreferenceService:  preferenceService,
		Translator:         translator,
		Logger:             logger,
		Configs:            config,
	}
}

// InitializeRoutes wires every handler. The returned func closes the
// websocket sessions and must be called on shutdown.
func InitializeRoutes(r *gin.Engine, dep Dependencies) (closeFn func() error) {
	r.Use(
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.CORSMiddleware(),
	)

	r.GET("/", func(ctx *gin.Context) { ctx.Data(http.StatusOK, "text/html; charset=utf-8", indexPage) })
	handlers.RegisterSystemRoutes(r)

	handlers.NewTranslationHandler(dep.TranslationService, dep.Logger).RegisterRoutes(r)
	handlers.NewPreferenceHandler(dep.PreferenceService, dep.Logger).RegisterRoutes(r)

	wsHandler := websocket.NewRecognitionHandler(dep.Logger, dep.Translator, dep.PreferenceService, websocket.HandlerConfig{
		HistorySize: dep.Configs.Translation.HistorySize,
	})
	wsHandler.RegisterRoutes(r)

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return wsHandler.Close
}
