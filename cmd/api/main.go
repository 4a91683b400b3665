package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velocitymotors/dealerdesk-backend/api/routes"
	"github.com/velocitymotors/dealerdesk-backend/internal/audit"
	"github.com/velocitymotors/dealerdesk-backend/internal/auth"
	"github.com/velocitymotors/dealerdesk-backend/internal/branches"
	"github.com/velocitymotors/dealerdesk-backend/internal/demand"
	"github.com/velocitymotors/dealerdesk-backend/internal/discounts"
	"github.com/velocitymotors/dealerdesk-backend/internal/inventory"
	"github.com/velocitymotors/dealerdesk-backend/internal/notifications"
	"github.com/velocitymotors/dealerdesk-backend/internal/orders"
	"github.com/velocitymotors/dealerdesk-backend/internal/users"
	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
	"github.com/velocitymotors/dealerdesk-backend/pkg/metrics"
	"github.com/velocitymotors/dealerdesk-backend/pkg/migrate"
	"github.com/velocitymotors/dealerdesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	branchesRepo := branches.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	auditService, err := audit.NewService(audit.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	notifier, err := notifications.NewNotifier(notificationsRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, orders.NewSLAPolicy(cfg.SLA))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	orderStore, err := orders.NewStore(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order store", err)
		os.Exit(1)
	}

	workflowMetrics := metrics.NewWorkflowMetrics(prometheus.DefaultRegisterer)

	discountsService, err := discounts.NewService(
		discounts.NewRepository(gormDB),
		dbClient,
		orderStore,
		discounts.NewRuleSet(cfg.Discount),
		auditService,
		notifier,
		workflowMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create discounts service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(
		inventory.NewRepository(gormDB),
		inventory.PolicyFromConfig(cfg.Inventory),
		workflowMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	demandService, err := demand.NewService(demand.NewRepository(gormDB), cfg.Demand, workflowMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create demand service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Auth:          authService,
			Discounts:     discountsService,
			Audit:         auditService,
			Inventory:     inventoryService,
			Demand:        demandService,
			Orders:        ordersService,
			Notifications: notificationsService,
			Branches:      branchesRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
