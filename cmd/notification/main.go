package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/aurorajewels/storefront/internal/notification/application"
	"github.com/aurorajewels/storefront/internal/notification/domain"
	"github.com/aurorajewels/storefront/internal/notification/infrastructure/persistence/mysql"
	"github.com/aurorajewels/storefront/internal/notification/infrastructure/sender"
	"github.com/aurorajewels/storefront/internal/notification/interfaces/events"
	"github.com/aurorajewels/storefront/pkg/config"
	"github.com/aurorajewels/storefront/pkg/db"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/metrics"
	"github.com/aurorajewels/storefront/pkg/mq"
)

var configPath = flag.String("config", "configs/notification/config.toml", "config file path")

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化指标
	m := metrics.New("notification")
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

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(&domain.Notification{}); err != nil {
			logger.Error(ctx, "Failed to migrate database", "error", err)
		}
	}

	// 5. 初始化发送器。未配置 SMTP 主机时退化为日志输出
	var emailSender domain.Sender
	if cfg.SMTP.Host != "" {
		emailSender = sender.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn(ctx, "SMTP host not configured, emails will only be logged")
		emailSender = sender.LogSender{}
	}

	repo := mysql.NewNotificationRepository(database.DB)
	svc := application.NewNotificationService(repo, emailSender, m)

	// 6. 消费订单事件
	consumer, err := mq.NewConsumer(mq.KafkaConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
	}, cfg.Kafka.OrderTopic)
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka consumer", "error", err)
	}
	defer consumer.Close()

	logger.Info(ctx, "Notification daemon started", "topic", cfg.Kafka.OrderTopic)
	if err := consumer.Consume(ctx, events.NewOrderEventHandler(svc)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Consumer exited abnormally", "error", err)
	}

	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
	logger.Info(context.Background(), "Notification daemon exited gracefully")
}
