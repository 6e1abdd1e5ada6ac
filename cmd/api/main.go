package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/rahulvarma/shopsphere-backend/api/routes"
	authsvc "github.com/rahulvarma/shopsphere-backend/internal/auth"
	blogsvc "github.com/rahulvarma/shopsphere-backend/internal/blog"
	cartsvc "github.com/rahulvarma/shopsphere-backend/internal/cart"
	"github.com/rahulvarma/shopsphere-backend/internal/catalog"
	checkoutsvc "github.com/rahulvarma/shopsphere-backend/internal/checkout"
	contactsvc "github.com/rahulvarma/shopsphere-backend/internal/contact"
	discountsvc "github.com/rahulvarma/shopsphere-backend/internal/discounts"
	orderssvc "github.com/rahulvarma/shopsphere-backend/internal/orders"
	userssvc "github.com/rahulvarma/shopsphere-backend/internal/users"
	wishlistsvc "github.com/rahulvarma/shopsphere-backend/internal/wishlist"
	"github.com/rahulvarma/shopsphere-backend/pkg/auth/session"
	"github.com/rahulvarma/shopsphere-backend/pkg/config"
	"github.com/rahulvarma/shopsphere-backend/pkg/db"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
	"github.com/rahulvarma/shopsphere-backend/pkg/metrics"
	"github.com/rahulvarma/shopsphere-backend/pkg/migrate"
	"github.com/rahulvarma/shopsphere-backend/pkg/razorpay"
	"github.com/rahulvarma/shopsphere-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gateway, err := razorpay.NewClient(cfg.Razorpay)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := userssvc.NewRepository(conn)
	addressRepo := userssvc.NewAddressRepo(conn)
	productRepo := catalog.NewRepository(conn)
	categoryRepo := catalog.NewCategoryRepo(conn)
	manufacturerRepo := catalog.NewManufacturerRepo(conn)
	cartRepo := cartsvc.NewRepository(conn)
	discountRepo := discountsvc.NewRepository(conn)
	orderRepo := orderssvc.NewRepository(conn)
	paymentSessionRepo := checkoutsvc.NewRepository(conn)
	wishlistRepo := wishlistsvc.NewRepository(conn)
	blogRepo := blogsvc.NewRepository(conn)
	contactRepo := contactsvc.NewRepository(conn)

	authService, err := authsvc.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := userssvc.NewService(userRepo, addressRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(productRepo, categoryRepo, manufacturerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	discountService, err := discountsvc.NewService(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartRepo, productRepo, discountService, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	ordersService, err := orderssvc.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:         dbClient,
		Users:      userRepo,
		Addresses:  usersService,
		Carts:      cartRepo,
		Orders:     orderRepo,
		Discounts:  discountRepo,
		Sessions:   paymentSessionRepo,
		Gateway:    gateway,
		Cache:      redisClient,
		SessionTTL: cfg.Razorpay.SessionTTL(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlistsvc.NewService(wishlistRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	blogService, err := blogsvc.NewService(blogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}
	contactService, err := contactsvc.NewService(contactRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Sessions:    sessionManager,
		HTTPMetrics: httpMetrics,
		Registry:    registry,

		Auth:      authService,
		Users:     usersService,
		Catalog:   catalogService,
		Cart:      cartService,
		Discounts: discountService,
		Orders:    ordersService,
		Checkout:  checkoutService,
		Wishlist:  wishlistService,
		Blog:      blogService,
		Contact:   contactService,
	})

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
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if shutdownErr != nil {
		logg.Error(ctx, "shutdown finished with errors", shutdownErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
