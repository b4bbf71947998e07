package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/printforge/fulfillment-backend/api/routes"
	"github.com/printforge/fulfillment-backend/internal/audit"
	"github.com/printforge/fulfillment-backend/internal/inventory"
	"github.com/printforge/fulfillment-backend/internal/jobs"
	"github.com/printforge/fulfillment-backend/internal/orders"
	"github.com/printforge/fulfillment-backend/internal/scantokens"
	"github.com/printforge/fulfillment-backend/internal/tickets"
	"github.com/printforge/fulfillment-backend/internal/wallet"
	"github.com/printforge/fulfillment-backend/pkg/config"
	"github.com/printforge/fulfillment-backend/pkg/db"
	"github.com/printforge/fulfillment-backend/pkg/logger"
	"github.com/printforge/fulfillment-backend/pkg/metrics"
	"github.com/printforge/fulfillment-backend/pkg/migrate"
	"github.com/printforge/fulfillment-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	scanMetrics := metrics.NewScanMetrics(registry)

	gormDB := dbClient.DB()

	auditRec, err := audit.NewRecorder(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	inventorySvc, err := inventory.NewService(inventory.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	walletSvc, err := wallet.NewService(wallet.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	tokenSvc, err := scantokens.NewService(scantokens.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create scan token service", err)
		os.Exit(1)
	}

	jobSvc, err := jobs.NewService(jobs.NewRepository(gormDB), dbClient, inventorySvc, tokenSvc, auditRec, scanMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	orderSvc, err := orders.NewService(orders.NewRepository(gormDB), dbClient, inventorySvc, walletSvc, tokenSvc, auditRec, cfg.Scan.StatusTokenMaxUses)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	ticketSvc, err := tickets.NewService(tickets.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create tickets service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Inventory: inventorySvc,
			Jobs:      jobSvc,
			Orders:    orderSvc,
			Wallet:    walletSvc,
			Tickets:   ticketSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
