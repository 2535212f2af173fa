package app

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/internal/database"
	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/internal/server"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/assistant"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

// App represents the application with all its dependencies
type App struct {
	Config     *config.Settings
	Logger     *Logger.Logger
	RC         *redis.Client
	Completer  assistant.Completer
	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// 1. completion provider, key read per request
	factory := NewCompleterFactory(a.Config.Completion, a.Config.CompletionKey, a.Logger)
	completer, err := factory.CreateCompleter()
	if err != nil {
		return err
	}
	a.Completer = completer

	// 2. theme store
	store := a.setupPreferenceStore()

	// 3. services
	translationService := translation.New(completer, translation.ServiceConfig{
		StrictValidation: a.Config.Translation.StrictValidation,
	}, a.Logger)

	// the websocket bridge goes through the public proxy like the page does
	translator := translate.New(a.Config.Translation.ProxyURL, nil, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		translationService,
		preference.New(store, a.Logger),
		translator,
		a.Logger,
		a.Config,
	)
	return nil
}

func (a *App) setupPreferenceStore() preference.Store {
	if a.Config.Redis.Addr == "" {
		a.Logger.Info("redis not configured, theme preferences kept in memory")
		return preference.NewMemoryStore()
	}
	rc, err := database.NewRedis(a.Config.Redis)
	if err != nil {
		a.Logger.Warnf("falling back to in-memory theme preferences: %v", err)
		return preference.NewMemoryStore()
	}
	a.RC = rc
	return preference.NewRedisStore(rc, time.Duration(a.Config.Redis.TTLHours)*time.Hour)
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases external connections
func (a *App) Close() error {
	if a.RC != nil {
		return a.RC.Close()
	}
	return nil
}
