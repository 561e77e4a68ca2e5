package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plumeworks/plume-be/internal/api"
	"github.com/plumeworks/plume-be/internal/config"
	"github.com/plumeworks/plume-be/internal/database"
	"github.com/plumeworks/plume-be/internal/logger"
	"github.com/plumeworks/plume-be/internal/maintenance"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/plumeworks/plume-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	articleService := services.NewArticleService(db, eventService)
	commentService := services.NewCommentService(db, eventService)
	userService := services.NewUserService(db)

	// Set up and run the background credential auditor
	var auditor *maintenance.Auditor
	if cfg.AuditCron != "" {
		upgrader := maintenance.NewUpgrader(userService, nil, eventService)
		auditor, err = maintenance.NewAuditor(upgrader, eventService, cfg.AuditCron)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize credential auditor")
		}
		go auditor.Run()
	}

	// Set up router
	router := api.NewRouter(hub, articleService, commentService, userService, eventService, userService, cfg.AllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if auditor != nil {
		auditor.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
