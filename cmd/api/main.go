package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/linguavox/internal/app"
	"github.com/xpanvictor/linguavox/internal/config"
	"github.com/xpanvictor/linguavox/internal/server"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

// @title Linguavox API
// @version 1.0
// @description Speech-to-text translation proxy and recognition bridge.
// @BasePath /

// Entry point for the translation server: loads config, wires the
// completion provider and serves the page, proxy and websocket bridge.
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	defer logger.Sync()
	logger.Info("Logger initialized")

	application, err := app.NewApp(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize application: %v", err)
	}

	// compose router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	closeRoutes := server.InitializeRoutes(router, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := closeRoutes(); err != nil {
		logger.Errorf("Closing websocket sessions: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	if err := application.Close(); err != nil {
		logger.Errorf("Closing app: %v", err)
	}
	logger.Info("Shutdown system")
}
