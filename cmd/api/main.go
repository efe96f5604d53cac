package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fekuna/ecomarche-risk-service/config"
	"github.com/fekuna/ecomarche-risk-service/internal/auth"
	catH "github.com/fekuna/ecomarche-risk-service/internal/category/handler"
	"github.com/fekuna/ecomarche-risk-service/internal/classifier"
	prodH "github.com/fekuna/ecomarche-risk-service/internal/product/handler"
	prodListenerPkg "github.com/fekuna/ecomarche-risk-service/internal/product/listener"
	prodRepoPkg "github.com/fekuna/ecomarche-risk-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/ecomarche-risk-service/internal/product/usecase"
	promoRepoPkg "github.com/fekuna/ecomarche-risk-service/internal/promotion/repository"
	"github.com/fekuna/ecomarche-risk-service/internal/risk"
	riskH "github.com/fekuna/ecomarche-risk-service/internal/risk/handler"
	riskUCPkg "github.com/fekuna/ecomarche-risk-service/internal/risk/usecase"
	"github.com/fekuna/ecomarche-risk-service/internal/sales"
	salesH "github.com/fekuna/ecomarche-risk-service/internal/sales/handler"
	"github.com/fekuna/ecomarche-risk-service/pkg/broker"
	"github.com/fekuna/ecomarche-risk-service/pkg/cache"
	"github.com/fekuna/ecomarche-risk-service/pkg/database/postgres"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Load Sales History
	// The history file is optional. Without it the scorer falls back to
	// per-product heuristics and the analytics endpoints return 404.
	history, err := sales.Load(cfg.Sales.HistoryPath)
	if err != nil {
		appLogger.Warn("Could not load sales history (analytics disabled)",
			zap.String("path", cfg.Sales.HistoryPath), zap.Error(err))
		history = nil
	} else {
		appLogger.Info("Loaded sales history",
			zap.String("path", cfg.Sales.HistoryPath),
			zap.Int("records", len(history.Records())),
			zap.Int("skipped", history.Skipped()))
	}

	// 6. Initialize Classifier Client
	var clf risk.Classifier
	if c := classifier.New(cfg.Model.URL, time.Duration(cfg.Model.TimeoutMS)*time.Millisecond); c != nil {
		clf = c
		appLogger.Info("Classifier enabled", zap.String("url", cfg.Model.URL))
	} else {
		appLogger.Info("Classifier disabled, scoring is heuristic only")
	}

	// 7. Initialize Repositories and UseCases
	prodRepo := prodRepoPkg.NewPGRepository(db)
	promoRepo := promoRepoPkg.NewPGRepository(db)

	prodUC := prodUCPkg.NewProductUseCase(prodRepo, promoRepo, redisClient, appLogger)
	engine := risk.NewEngine(appLogger)
	riskUC := riskUCPkg.NewRiskUseCase(prodRepo, promoRepo, history, engine, clf, redisClient, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 8. Seed Demo Catalogue
	if cfg.Sales.SeedOnEmpty {
		if err := prodUC.SeedIfEmpty(ctx); err != nil {
			appLogger.Error("Failed to seed products", zap.Error(err))
		}
	}

	// 9. Initialize Kafka Listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		saleListener := prodListenerPkg.NewSaleListener(kafkaConsumer, prodUC, appLogger)
		go saleListener.Start(ctx)
	}

	// 10. Build Router
	if cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORS,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(auth.APIKeyMiddleware(cfg.Server.APIKey))

	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(api)
	catH.NewCategoryHandler().RegisterRoutes(api)
	riskH.NewRiskHandler(riskUC, appLogger).RegisterRoutes(api)
	salesH.NewSalesHandler(history, appLogger).RegisterRoutes(api)

	// 11. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
