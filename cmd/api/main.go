package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopdeskapp/shopdesk-backend/api/routes"
	"github.com/shopdeskapp/shopdesk-backend/internal/audit"
	"github.com/shopdeskapp/shopdesk-backend/internal/categories"
	"github.com/shopdeskapp/shopdesk-backend/internal/customers"
	"github.com/shopdeskapp/shopdesk-backend/internal/invoices"
	"github.com/shopdeskapp/shopdesk-backend/internal/orders"
	"github.com/shopdeskapp/shopdesk-backend/internal/products"
	"github.com/shopdeskapp/shopdesk-backend/internal/settings"
	"github.com/shopdeskapp/shopdesk-backend/pkg/config"
	"github.com/shopdeskapp/shopdesk-backend/pkg/db"
	"github.com/shopdeskapp/shopdesk-backend/pkg/logger"
	"github.com/shopdeskapp/shopdesk-backend/pkg/metrics"
	"github.com/shopdeskapp/shopdesk-backend/pkg/migrate"
	"github.com/shopdeskapp/shopdesk-backend/pkg/redis"
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

	svcs, err := buildServices(cfg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client) (routes.Services, error) {
	gormDB := dbClient.DB()

	auditSvc, err := audit.NewService(audit.NewRepository(gormDB))
	if err != nil {
		return routes.Services{}, err
	}

	categoriesRepo := categories.NewRepository(gormDB)
	categoriesSvc, err := categories.NewService(categoriesRepo, dbClient, auditSvc)
	if err != nil {
		return routes.Services{}, err
	}

	productsSvc, err := products.NewService(products.NewRepository(gormDB), dbClient, auditSvc, categoriesRepo)
	if err != nil {
		return routes.Services{}, err
	}

	customersRepo := customers.NewRepository(gormDB)
	customersSvc, err := customers.NewService(customersRepo, dbClient, auditSvc)
	if err != nil {
		return routes.Services{}, err
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(gormDB), dbClient, customersRepo, productsSvc)
	if err != nil {
		return routes.Services{}, err
	}

	settingsSvc, err := settings.NewService(settings.NewRepository(gormDB))
	if err != nil {
		return routes.Services{}, err
	}

	invoicesSvc, err := invoices.NewService(ordersSvc, settingsSvc, cfg.Invoice.CurrencySymbol)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Categories: categoriesSvc,
		Products:   productsSvc,
		Customers:  customersSvc,
		Orders:     ordersSvc,
		Invoices:   invoicesSvc,
		Settings:   settingsSvc,
		Audit:      auditSvc,
	}, nil
}
