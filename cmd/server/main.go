package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "wallet-server/internal/application/admin"
	authapp "wallet-server/internal/application/auth"
	giftapp "wallet-server/internal/application/gift"
	historyapp "wallet-server/internal/application/history"
	paymentapp "wallet-server/internal/application/payment"
	shopapp "wallet-server/internal/application/shop"
	walletapp "wallet-server/internal/application/wallet"
	"wallet-server/internal/domain/ledger"
	"wallet-server/internal/domain/reward"
	"wallet-server/internal/infrastructure/cache"
	"wallet-server/internal/infrastructure/config"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
	"wallet-server/internal/infrastructure/payment/momo"
	"wallet-server/internal/infrastructure/persistence/mysql"
	"wallet-server/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("wallet-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("wallet-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// リポジトリの初期化
	walletRepo := mysql.NewWalletRepository(db)
	transactionRepo := mysql.NewTransactionRepository(db)
	giftCatalogRepo := mysql.NewGiftCatalogRepository(db)
	giftReceiptRepo := mysql.NewGiftReceiptRepository(db)
	shopItemRepo := mysql.NewShopItemRepository(db)
	purchasedItemRepo := mysql.NewPurchasedItemRepository(db)
	profileRepo := mysql.NewUserProfileRepository(db)
	orderRepo := mysql.NewMomoOrderRepository(db)

	// トランザクションマネージャーの初期化
	txManager := mysql.NewTransactionManager(db)

	// 広告報酬のクールダウン管理
	// Redisが有効ならRedis、無効ならMySQLにフォールバックする
	var rewardLimiter reward.Limiter
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		rewardLimiter = cache.NewRedisRewardLimiter(redisClient, cfg.Reward.Interval)
	} else {
		rewardLimiter = mysql.NewRewardClaimRepository(db, cfg.Reward.Interval)
	}

	// ドメインサービスの初期化
	ledgerService := ledger.NewService(walletRepo, transactionRepo)

	// MoMo決済ゲートウェイの初期化
	momoGateway := momo.NewClient(&cfg.Momo)

	// アプリケーションサービスの初期化
	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	walletAppService := walletapp.NewWalletApplicationService(
		walletRepo,
		ledgerService,
		txManager,
		rewardLimiter,
		cfg.Reward.Amount,
		cfg.Reward.Interval,
		logger,
		metrics,
	)

	giftAppService := giftapp.NewGiftApplicationService(
		giftCatalogRepo,
		giftReceiptRepo,
		ledgerService,
		txManager,
		rewardLimiter,
		logger,
		metrics,
	)

	shopAppService := shopapp.NewShopApplicationService(
		shopItemRepo,
		purchasedItemRepo,
		profileRepo,
		ledgerService,
		txManager,
		logger,
		metrics,
	)

	paymentAppService := paymentapp.NewPaymentApplicationService(
		orderRepo,
		profileRepo,
		ledgerService,
		txManager,
		momoGateway,
		logger,
		metrics,
	)

	historyAppService := historyapp.NewHistoryApplicationService(
		transactionRepo,
		logger,
		metrics,
	)

	adminAppService := adminapp.NewAdminApplicationService(
		walletRepo,
		transactionRepo,
		profileRepo,
		ledgerService,
		txManager,
		cfg.AdminAPI.StatsSample,
		logger,
		metrics,
	)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		authAppService,
		walletAppService,
		giftAppService,
		shopAppService,
		paymentAppService,
		historyAppService,
		adminAppService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// サーバーアドレスの設定
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}
