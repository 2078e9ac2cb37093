package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/aurorajewels/storefront/internal/cart/application"
	cartdomain "github.com/aurorajewels/storefront/internal/cart/domain"
	cartcatalog "github.com/aurorajewels/storefront/internal/cart/infrastructure/catalog"
	cartmysql "github.com/aurorajewels/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/aurorajewels/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/aurorajewels/storefront/internal/catalog/application"
	catalogdomain "github.com/aurorajewels/storefront/internal/catalog/domain"
	catalogmsg "github.com/aurorajewels/storefront/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/aurorajewels/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/aurorajewels/storefront/internal/catalog/interfaces/http"
	checkoutapp "github.com/aurorajewels/storefront/internal/checkout/application"
	checkoutdomain "github.com/aurorajewels/storefront/internal/checkout/domain"
	"github.com/aurorajewels/storefront/internal/checkout/infrastructure/payment/razorpay"
	"github.com/aurorajewels/storefront/internal/checkout/infrastructure/payment/stripe"
	checkoutmysql "github.com/aurorajewels/storefront/internal/checkout/infrastructure/persistence/mysql"
	checkouthttp "github.com/aurorajewels/storefront/internal/checkout/interfaces/http"
	orderapp "github.com/aurorajewels/storefront/internal/order/application"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	ordermsg "github.com/aurorajewels/storefront/internal/order/infrastructure/messaging"
	ordermysql "github.com/aurorajewels/storefront/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/aurorajewels/storefront/internal/order/interfaces/http"
	userapp "github.com/aurorajewels/storefront/internal/user/application"
	userdomain "github.com/aurorajewels/storefront/internal/user/domain"
	usermysql "github.com/aurorajewels/storefront/internal/user/infrastructure/persistence/mysql"
	userredis "github.com/aurorajewels/storefront/internal/user/infrastructure/persistence/redis"
	userhttp "github.com/aurorajewels/storefront/internal/user/interfaces/http"
	"github.com/aurorajewels/storefront/pkg/cache"
	"github.com/aurorajewels/storefront/pkg/config"
	"github.com/aurorajewels/storefront/pkg/db"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/metrics"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/aurorajewels/storefront/pkg/mq"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. 初始化指标
	m := metrics.New("storefront")
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = m.Serve(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. 初始化基础设施
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect database", "error", err)
	}
	defer database.Close()

	// Auto Migrate（仅开发环境）
	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&catalogdomain.Product{}, &catalogdomain.Variant{}, &catalogdomain.Banner{},
			&cartdomain.CartLine{},
			&orderdomain.Order{}, &orderdomain.OrderItem{},
			&checkoutdomain.CheckoutAttempt{},
			&userdomain.User{},
		); err != nil {
			logger.Error(ctx, "Failed to migrate database", "error", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	jwtManager := middleware.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 5. 初始化仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	bannerRepo := catalogmysql.NewBannerRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	attemptRepo := checkoutmysql.NewAttemptRepository(database.DB)
	userRepo := usermysql.NewUserRepository(database.DB)
	sessionStore := userredis.NewSessionStore(redisCache.Client())
	uow := checkoutmysql.NewUnitOfWork(database.DB)

	catalogPublisher := catalogmsg.NewKafkaEventPublisher(producer)
	orderPublisher := ordermsg.NewKafkaEventPublisher(producer)

	// 6. 初始化应用服务
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo, bannerRepo, redisCache)
	catalogCmd := catalogapp.NewCatalogCommandService(productRepo, bannerRepo, catalogPublisher, redisCache, cfg.Kafka.ProductTopic)

	catalogReader := cartcatalog.NewReader(catalogQuery)
	cartCmd := cartapp.NewCartCommandService(cartRepo, catalogReader)
	cartQuery := cartapp.NewCartQueryService(cartRepo, catalogReader)

	orderCmd := orderapp.NewOrderCommandService(orderRepo, orderPublisher, cfg.Kafka.OrderTopic)
	orderQuery := orderapp.NewOrderQueryService(orderRepo)

	gatewayTimeout := time.Duration(cfg.Payment.GatewayTimeout) * time.Second
	providers := []checkoutdomain.PaymentProvider{
		stripe.NewProvider(cfg.Payment.StripeSecretKey, gatewayTimeout),
		razorpay.NewProvider(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret,
			cfg.Payment.RazorpayCurrency, cfg.Payment.RazorpayFXRate, gatewayTimeout),
	}
	checkoutSvc := checkoutapp.NewCheckoutService(
		cartQuery, orderRepo, attemptRepo, uow, providers,
		orderPublisher, cfg.Kafka.OrderTopic,
		checkoutapp.Pricing{
			Currency:    cfg.Payment.Currency,
			ShippingFee: decimal.NewFromFloat(cfg.Payment.ShippingFee),
			TaxRate:     decimal.NewFromFloat(cfg.Payment.TaxRate),
		},
	)

	authSvc := userapp.NewAuthService(userRepo, sessionStore, jwtManager, cartCmd, cfg.Auth.TokenTTL)

	// 7. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinCORSMiddleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(
		middleware.GuestSession(cfg.Auth.SessionCookie),
		middleware.OptionalAuth(jwtManager),
	)

	cataloghttp.NewCatalogHandler(catalogQuery).RegisterRoutes(api)
	carthttp.NewCartHandler(cartCmd, cartQuery, m).RegisterRoutes(api)
	checkouthttp.NewCheckoutHandler(checkoutSvc, m).RegisterRoutes(api)
	userhttp.NewAuthHandler(authSvc, jwtManager).RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(jwtManager))
	orderhttp.NewOrderHandler(orderQuery).RegisterRoutes(authed)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(jwtManager), middleware.RequireAdmin())
	cataloghttp.NewAdminCatalogHandler(catalogCmd, catalogQuery).RegisterRoutes(admin)
	orderhttp.NewAdminOrderHandler(orderCmd, orderQuery).RegisterRoutes(admin)

	// 8. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 9. 等待退出信号
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			logger.Info(ctx, "Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Fatal(ctx, "Server exited abnormally", "error", err)
	}
	logger.Info(ctx, "Server exited gracefully")
}
