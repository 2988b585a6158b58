package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "storefront-service/internal/controllers/http"
	"storefront-service/internal/config"
	"storefront-service/internal/infra/cache"
	"storefront-service/internal/infra/database"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository/sqlstore"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.FromEnv()

	mode := "development"
	if cfg.Production() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Fatal("db: connect", "driver", cfg.DB.Driver, "error", err)
	}

	// Repos
	productRepo := sqlstore.NewProductRepository(db, log)
	orderRepo := sqlstore.NewOrderRepository(db, log)
	reportRepo := sqlstore.NewReportRepository(db, log)

	var publisher rabbit.PublisherInterface = rabbit.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbit.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("failed to init publisher", "error", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn("RABBITMQ_URL not set, domain events are dropped")
	}

	// Services
	catalog := services.NewCatalogService(productRepo, publisher, log)
	orders := services.NewOrderService(orderRepo, catalog, publisher, log)
	reports := services.NewReportService(reportRepo, log)

	if cfg.Redis.Enabled() {
		rdb := cache.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.DB, cfg.Redis.PoolSize)
		defer rdb.Close()
		catalog.SetCache(cache.NewRedisProductCache(rdb, cfg.Redis.ProductTTL))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := catalog.WarmCache(ctx, 50)
			if err != nil {
				log.Warn("failed to warm up product cache", "error", err)
				return
			}
			log.Info("product cache warmed up", "products", n)
		}()
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:      httpapi.NewHandler(catalog, orders, reports, log),
		JWTSecret:    []byte(cfg.JWTSecret),
		AllowOrigins: cfg.CORSAllowOrigins,
		Log:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting storefront service", "port", cfg.Port, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server run", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
