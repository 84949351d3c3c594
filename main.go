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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vinitha-rv/library-backend/cache"
	"github.com/vinitha-rv/library-backend/common/auth"
	"github.com/vinitha-rv/library-backend/common/logger"
	"github.com/vinitha-rv/library-backend/common/middleware"
	"github.com/vinitha-rv/library-backend/config"
	"github.com/vinitha-rv/library-backend/controllers"
	"github.com/vinitha-rv/library-backend/database"
	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
	"github.com/vinitha-rv/library-backend/repository"
	"github.com/vinitha-rv/library-backend/routes"
	"github.com/vinitha-rv/library-backend/services"
)

const serviceName = "bookstore"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger depends on APP_ENV, so fall back to a production one here
		l, _ := zap.NewProduction()
		l.Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 0. AWS (optional) & logging ---

	var (
		awsCfg      aws.Config
		awsEndpoint string
		cwLogs      *awspkg.CloudWatchLogsClient
	)
	if cfg.UsesAWS() {
		awsCfg, awsEndpoint, err = awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			l, _ := zap.NewProduction()
			l.Fatal("Failed to load AWS config", zap.Error(err))
		}
	}
	if cfg.CloudWatchLogsEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		cwLogs, err = awspkg.NewCloudWatchLogsClient(ctx, awsCfg, awsEndpoint, cfg.CloudWatchLogGroup, serviceName)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch logs client init failed (non-fatal): %v\n", err)
		}
	}

	var log *zap.Logger
	if cwLogs != nil {
		log = logger.InitializeWithWriter(cfg.AppEnv, cwLogs)
	} else {
		log = logger.Initialize(cfg.AppEnv)
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- 1. Stores ---

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongo, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	bookRepo := repository.NewBookRepository(mongo.DB)
	userRepo := repository.NewUserRepository(mongo.DB)
	paymentRepo := repository.NewPaymentRepository(mongo.DB)
	contactRepo := repository.NewContactRepository(mongo.DB)

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(ctx, bookRepo, userRepo, paymentRepo); err != nil {
		zap.L().Warn("Failed to ensure indexes", zap.Error(err))
	}
	cancel()

	var (
		redisClient  *redis.Client
		catalogCache cache.CatalogCache = cache.NoopCatalogCache{}
		idemStore    cache.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			catalogCache = cache.NewRedisCatalogCache(redisClient, cfg.CacheTTL)
			idemStore = cache.NewRedisIdempotencyStore(redisClient, cache.DefaultIdempotencyTTL)
		}
	}

	// --- 2. Events & metrics (optional) ---

	var (
		events  services.EventPublisher = services.NoopEventPublisher{}
		metrics *awspkg.MetricsClient
	)
	if cfg.UsesAWS() {
		zap.L().Info("AWS Configuration",
			zap.String("AWS_ENDPOINT", awsEndpoint),
			zap.String("AWS_REGION", awsCfg.Region),
			zap.Bool("cloudwatch_logs", cwLogs != nil),
			zap.Bool("secrets_manager", cfg.UseSecrets),
		)
		if cfg.AWSEventsEnabled {
			events = services.NewSNSEventPublisher(awspkg.NewSNSClient(awsCfg, awsEndpoint), cfg.CheckoutTopicARN)
		}
		metrics = awspkg.NewMetricsClient(awsCfg, awsEndpoint, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
	}

	// --- 3. Services & Controllers ---

	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		zap.L().Fatal("Failed to create token service", zap.Error(err))
	}

	catalogService := services.NewCatalogService(bookRepo, catalogCache)
	authService := services.NewAuthService(userRepo, tokenService)
	checkoutService := services.NewCheckoutService(
		bookRepo,
		paymentRepo,
		database.NewMongoTxRunner(mongo.Client, cfg.MongoTransactions),
		catalogCache,
		events,
		metrics,
		services.CheckoutConfig{ShippingFee: cfg.ShippingFee, TotalPolicy: cfg.TotalPolicy},
	)
	paymentService := services.NewPaymentService(paymentRepo, metrics)
	contactService := services.NewContactService(contactRepo)

	handlers := routes.Controllers{
		Books:    controllers.NewBookController(catalogService),
		Accounts: controllers.NewAccountController(authService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Payments: controllers.NewPaymentController(paymentService),
		Contact:  controllers.NewContactController(contactService),
		Health:   controllers.NewHealthController(mongo, serviceName),
	}

	// --- 4. HTTP Server & Middleware ---

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.MetricsMiddleware(metrics, serviceName))

	routes.RegisterRoutes(r, handlers,
		middleware.RequireAuth(tokenService, cfg.AuthRequired),
		middleware.Idempotency(idemStore),
	)

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Bookstore backend starting",
			zap.String("port", cfg.Port),
			zap.Bool("auth_required", cfg.AuthRequired),
			zap.Bool("transactions", cfg.MongoTransactions),
			zap.Bool("cache", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down bookstore backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := mongo.Close(); err != nil {
		zap.L().Error("Failed to close MongoDB", zap.Error(err))
	}

	zap.L().Info("Bookstore backend stopped gracefully")
}
