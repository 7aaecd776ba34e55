package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chitts/storefront-backend/api/routes"
	"github.com/chitts/storefront-backend/internal/cart"
	"github.com/chitts/storefront-backend/internal/checkout"
	"github.com/chitts/storefront-backend/internal/feed"
	"github.com/chitts/storefront-backend/internal/orders"
	"github.com/chitts/storefront-backend/internal/products"
	"github.com/chitts/storefront-backend/internal/profile"
	"github.com/chitts/storefront-backend/internal/wallet"
	"github.com/chitts/storefront-backend/pkg/config"
	"github.com/chitts/storefront-backend/pkg/db"
	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/chitts/storefront-backend/pkg/metrics"
	"github.com/chitts/storefront-backend/pkg/migrate"
	"github.com/chitts/storefront-backend/pkg/redis"
	"github.com/chitts/storefront-backend/pkg/stripe"
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	profileRepo := profile.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	ledgerRepo := wallet.NewLedgerRepository(dbClient.DB())

	feedNotifier, err := feed.NewNotifier(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed notifier", err)
		os.Exit(1)
	}

	var mirror cart.Mirror
	if cfg.Cart.MirrorEnabled {
		mirror = redisClient
	}
	cartService, err := cart.NewService(mirror, cfg.Cart.MirrorTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	profileService, err := profile.NewService(profileRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(profileRepo, ledgerRepo, dbClient, feedNotifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	checkoutService, err := checkout.NewService(
		cartService,
		ordersRepo,
		products.NewStockDecrementer(productsRepo),
		walletService,
		profileRepo,
		stripeClient,
		dbClient,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
			Config:           cfg,
			Logger:           logg,
			DBPinger:         dbClient,
			RedisPinger:      redisClient,
			IdempotencyStore: redisClient,
			Products:         productsService,
			Cart:             cartService,
			Checkout:         checkoutService,
			Orders:           ordersService,
			Profile:          profileService,
			Wallet:           walletService,
			Feed:             feedNotifier,
			MetricsGatherer:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
