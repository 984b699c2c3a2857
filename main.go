package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/lead_management_backend/config"
	"github.com/HSouheill/lead_management_backend/controllers"
	"github.com/HSouheill/lead_management_backend/middleware"
	"github.com/HSouheill/lead_management_backend/repositories"
	"github.com/HSouheill/lead_management_backend/routes"
	"github.com/HSouheill/lead_management_backend/services"
	"github.com/HSouheill/lead_management_backend/utils"
)

// stores bundles the store implementations selected by STORE_DRIVER.
type stores struct {
	agents   services.AgentStore
	leads    services.LeadStore
	comments services.CommentStore
	pinger   controllers.Pinger
	close    func()
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		mem := repositories.NewMemoryStore()
		return &stores{agents: mem, leads: mem, comments: mem, pinger: mem, close: func() {}}, nil
	}

	client, db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		agents:   repositories.NewAgentRepository(db, cfg.RequestTimeout),
		leads:    repositories.NewLeadRepository(db, cfg.RequestTimeout),
		comments: repositories.NewCommentRepository(db, cfg.RequestTimeout),
		pinger:   repositories.MongoPinger{Client: client},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	st, err := openStores(cfg)
	if err != nil {
		logger.Error("store unavailable", "error", err)
		os.Exit(1)
	}
	defer st.close()

	validate := utils.NewValidator()

	var agentOpts []services.AgentOption
	if redisClient := config.ConnectRedis(cfg); redisClient != nil {
		defer redisClient.Close()
		agentOpts = append(agentOpts, services.WithEmailReserver(
			repositories.NewEmailReservation(redisClient, cfg.EmailReservationTTL)))
	}

	agentService := services.NewAgentService(st.agents, validate, agentOpts...)
	leadService := services.NewLeadService(st.leads, st.agents, validate)
	commentService := services.NewCommentService(st.comments, st.leads, st.agents, validate)

	metrics := middleware.NewMetrics()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Close()

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.SecurityHeaders())
	e.Use(metrics.Middleware())
	e.Use(rateLimiter.RateLimit())

	routes.SetupRoutes(e, routes.Controllers{
		Health:  controllers.NewHealthController(st.pinger),
		Agent:   controllers.NewAgentController(agentService, metrics),
		Lead:    controllers.NewLeadController(leadService, metrics),
		Comment: controllers.NewCommentController(commentService, metrics),
	}, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
