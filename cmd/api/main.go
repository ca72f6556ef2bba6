package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vapecloud/miniapp/api/routes"
	"github.com/vapecloud/miniapp/internal/cart"
	"github.com/vapecloud/miniapp/internal/catalog"
	"github.com/vapecloud/miniapp/internal/locations"
	"github.com/vapecloud/miniapp/internal/orders"
	"github.com/vapecloud/miniapp/internal/users"
	"github.com/vapecloud/miniapp/pkg/config"
	"github.com/vapecloud/miniapp/pkg/db"
	"github.com/vapecloud/miniapp/pkg/env"
	"github.com/vapecloud/miniapp/pkg/logger"
	"github.com/vapecloud/miniapp/pkg/metrics"
	"github.com/vapecloud/miniapp/pkg/redis"
	"github.com/vapecloud/miniapp/pkg/telegram"
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

	if err := db.Migrate(context.Background(), dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to migrate database", err)
		os.Exit(1)
	}
	if err := db.Seed(context.Background(), dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to seed database", err)
		os.Exit(1)
	}

	var redisPinger redis.Pinger
	var locationsCache locations.Cache
	if cfg.Redis.Enabled() {
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
		locationsCache = redisClient
		redisPinger = redisClient
	}

	userService, err := users.NewService(users.ServiceParams{
		UserRepo: users.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		ProductRepo: catalog.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cart.NewRepository(dbClient.DB()),
		ProductRepo: catalog.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	locationsService, err := locations.NewService(locations.ServiceParams{
		LocationRepo: locations.NewRepository(dbClient.DB()),
		Cache:        locationsCache,
		CacheTTL:     cfg.Redis.CacheTTL,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	var notifier orders.AdminNotifier
	if cfg.Telegram.BotToken != "" {
		tgNotifier, err := telegram.NewNotifier(cfg.Telegram.BotToken)
		if err != nil {
			logg.Error(context.Background(), "failed to create telegram notifier", err)
			os.Exit(1)
		}
		notifier = tgNotifier
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:    orders.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Locations:    locationsService,
		Notifier:     notifier,
		AdminChatID:  cfg.Telegram.AdminChatID,
		CashbackRate: cfg.Shop.CashbackDecimal(),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisPinger,
			Registry:    registry,
			HTTPMetrics: httpMetrics,
			Users:       userService,
			Catalog:     catalogService,
			Cart:        cartService,
			Locations:   locationsService,
			Orders:      orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
