package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/brewery-service/internal/cache"
	"github.com/Lixing-Zhang/brewery-service/internal/config"
	"github.com/Lixing-Zhang/brewery-service/internal/handlers"
	"github.com/Lixing-Zhang/brewery-service/internal/middleware"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/Lixing-Zhang/brewery-service/internal/repository/postgres"
	"github.com/Lixing-Zhang/brewery-service/internal/server"
	"github.com/Lixing-Zhang/brewery-service/internal/service"
	"github.com/Lixing-Zhang/brewery-service/pkg/logger"
	"github.com/Lixing-Zhang/brewery-service/pkg/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type stores struct {
	beers     repository.BeerRepository
	customers repository.CustomerRepository
	orders    repository.BeerOrderRepository
	db        *sql.DB
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting brewery api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Tracing
	var tracer tracing.Tracer
	exporter, err := tracing.NewExporter(ctx, cfg.Tracing.Exporter, cfg.Tracing.OTLPEndpoint, os.Stdout)
	if err != nil {
		log.Error("failed to create trace exporter", "error", err)
		os.Exit(1)
	}
	if exporter != nil {
		tracer = tracing.NewTracer(cfg.Tracing.ServiceName, exporter)
		log.Info("tracing enabled", "exporter", cfg.Tracing.Exporter)
	}

	// Initialize repositories
	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	if cfg.SeedData {
		if err := repository.Seed(ctx, st.beers, st.customers, st.orders, log); err != nil {
			log.Error("failed to seed data", "error", err)
			os.Exit(1)
		}
	}

	checks := map[string]handlers.HealthCheck{}
	if st.db != nil {
		checks["postgres"] = st.db.PingContext
	}

	// Initialize services
	var beerService cache.BeerService = service.NewBeerService(st.beers)
	orderService := service.NewBeerOrderService(st.orders, st.customers, st.beers)

	var rdb *redis.Client
	if cfg.Cache.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		beerService = cache.NewCachedBeerService(beerService, rdb, cfg.Cache.TTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("beer cache enabled", "redis_addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
	}

	// Metrics
	var (
		metrics *middleware.Metrics
		reg     *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = middleware.NewMetrics(reg)
	}

	router := server.NewRouter(server.Options{
		Beers:     handlers.NewBeerHandler(beerService, log),
		Orders:    handlers.NewBeerOrderHandler(orderService, log),
		Customers: handlers.NewCustomerHandler(service.NewCustomerService(st.customers), log),
		Health:    handlers.NewHealthHandler(log, checks),
		Auth:      cfg.Auth,
		Keys:      st.customers,
		Metrics:   metrics,
		Gatherer:  reg,
		Tracer:    tracer,
		Logger:    log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if tracer != nil {
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if st.db != nil {
		_ = st.db.Close()
	}

	log.Info("server stopped gracefully")
}

// openStores builds the repositories for the configured storage driver
func openStores(ctx context.Context, cfg config.StorageConfig) (*stores, error) {
	if cfg.Driver != config.StoragePostgres {
		return &stores{
			beers:     repository.NewInMemoryBeerRepository(),
			customers: repository.NewInMemoryCustomerRepository(),
			orders:    repository.NewInMemoryBeerOrderRepository(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &stores{
		beers:     postgres.NewBeerRepository(db),
		customers: postgres.NewCustomerRepository(db),
		orders:    postgres.NewBeerOrderRepository(db),
		db:        db,
	}, nil
}
