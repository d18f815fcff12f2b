package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/middleware"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/service"
	"storefront/internal/session"

	handlerpkg "storefront/internal/handler"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := client.InitSQLiteClient(cfg.DatabaseURL)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}

	sessions, err := newSessionStore(cfg.Session)
	if err != nil {
		logger.Error("init session store", "error", err)
		os.Exit(1)
	}
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute

	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		logger.Error("init event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	rules, err := pricing.RulesFromConfig(cfg.Checkout)
	if err != nil {
		logger.Error("parse pricing rules", "error", err)
		os.Exit(1)
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)

	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	if cfg.Environment.Name == "development" {
		if err := productRepo.Seed(context.Background()); err != nil {
			logger.Warn("seed catalog", "error", err)
		}
	}

	authService := service.NewAuthService(userRepo, &cfg.Auth)
	catalogService := service.NewCatalogService(productRepo, reviewRepo)
	cartService := service.NewCartService(sessions, productRepo, sessionTTL)
	checkoutService := service.NewCheckoutService(
		db, stripeClient, cartService,
		orderRepo, productRepo, userRepo,
		publisher, sessions, rules,
		cfg.Stripe.Currency, sessionTTL, logger,
	)
	orderService := service.NewOrderService(orderRepo)
	adminService := service.NewAdminService(productRepo, orderRepo, userRepo, reviewRepo)

	guard := middleware.NewGuard(authService, cfg.Auth.CookieName)

	srv := server.NewServer(
		guard,
		handlerpkg.NewProductHandler(catalogService, authService),
		handlerpkg.NewUserHandler(authService, cfg.Auth.CookieName),
		handlerpkg.NewCartHandler(cartService),
		handlerpkg.NewCheckoutHandler(checkoutService, authService),
		handlerpkg.NewOrderHandler(orderService),
		handlerpkg.NewAdminHandler(adminService),
		cfg.Stripe.PublicKey,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		os.Exit(1)
	}
}

func newLogger(logCfg config.Log) *slog.Logger {
	level := slog.LevelInfo
	switch logCfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if logCfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newSessionStore(sessionCfg config.Session) (session.Store, error) {
	if sessionCfg.RedisURL == "" {
		return session.NewMemoryStore(), nil
	}
	return session.NewRedisStore(sessionCfg.RedisURL)
}

func newPublisher(eventsCfg config.Events) (events.Publisher, error) {
	if eventsCfg.AMQPURL == "" {
		return events.NoopPublisher{}, nil
	}
	return events.NewRabbitPublisher(eventsCfg.AMQPURL, eventsCfg.Exchange)
}
