package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/planbill/planbill/internal/api/handlers"
	"github.com/planbill/planbill/internal/api/router"
	"github.com/planbill/planbill/internal/config"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/validator"
	"github.com/planbill/planbill/internal/repository/postgres"
	"github.com/planbill/planbill/internal/services"
	"github.com/planbill/planbill/internal/worker"
)

// @title PlanBill API
// @version 1.0
// @description Subscription billing backend: plans, proration, team subscriptions and orders.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Services
	userService := services.NewUserService(userRepo, cfg.Auth.BCryptCost, log)
	planService := services.NewPlanService(planRepo, log)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, teamRepo, planRepo, log)

	val := validator.New()

	// Handlers
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Auth:         handlers.NewAuthHandler(userService, cfg, log, val),
		Plan:         handlers.NewPlanHandler(planService, log, val),
		Team:         handlers.NewTeamHandler(teamRepo, log, val),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, teamRepo, log, val),
	}

	renewals := worker.NewRenewalWorker(subscriptionRepo, cfg.Billing.RenewalSchedule, cfg.Billing.PeriodDays, log)
	if err := renewals.Start(); err != nil {
		log.Fatalf("Failed to start renewal worker: %v", err)
	}
	defer renewals.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, userService, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped")
}
