package rest

import (
	adminapp "wallet-server/internal/application/admin"
	authapp "wallet-server/internal/application/auth"
	giftapp "wallet-server/internal/application/gift"
	historyapp "wallet-server/internal/application/history"
	paymentapp "wallet-server/internal/application/payment"
	shopapp "wallet-server/internal/application/shop"
	walletapp "wallet-server/internal/application/wallet"
	"wallet-server/internal/infrastructure/config"
	otelinfra "wallet-server/internal/infrastructure/observability/otel"
	"wallet-server/internal/presentation/rest/handler"
	restmiddleware "wallet-server/internal/presentation/rest/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	authHandler    *handler.AuthHandler
	walletHandler  *handler.WalletHandler
	giftHandler    *handler.GiftHandler
	shopHandler    *handler.ShopHandler
	momoHandler    *handler.MomoHandler
	historyHandler *handler.HistoryHandler
	adminHandler   *handler.AdminHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	authService *authapp.AuthApplicationService,
	walletService *walletapp.WalletApplicationService,
	giftService *giftapp.GiftApplicationService,
	shopService *shopapp.ShopApplicationService,
	paymentService *paymentapp.PaymentApplicationService,
	historyService *historyapp.HistoryApplicationService,
	adminService *adminapp.AdminApplicationService,
) (*Router, error) {
	e := echo.New()

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	r := &Router{
		echo:           e,
		authHandler:    handler.NewAuthHandler(authService),
		walletHandler:  handler.NewWalletHandler(walletService),
		giftHandler:    handler.NewGiftHandler(giftService),
		shopHandler:    handler.NewShopHandler(shopService),
		momoHandler:    handler.NewMomoHandler(paymentService),
		historyHandler: handler.NewHistoryHandler(historyService),
		adminHandler:   handler.NewAdminHandler(adminService),
	}

	// ルーティングの設定
	r.setupRoutes(cfg, logger)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return r, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // 本番環境では適切に設定
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func (r *Router) setupRoutes(cfg *config.Config, logger *otelinfra.Logger) {
	e := r.echo

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	// 認証不要の公開エンドポイント
	api.POST("/auth/token", r.authHandler.GenerateToken)
	api.GET("/gifts", r.giftHandler.GetCatalog)
	api.GET("/shop/items", r.shopHandler.ListItems)
	api.GET("/shop/items/:item_id", r.shopHandler.GetItem)
	// IPN通知は署名検証が認証を兼ねる
	api.POST("/momo/callback", r.momoHandler.Callback)

	// JWT認証が必要なエンドポイント
	authGroup := api.Group("", restmiddleware.AuthMiddleware(&cfg.JWT, logger))

	// ウォレット関連エンドポイント
	authGroup.GET("/wallet/balance", r.walletHandler.GetBalance)
	authGroup.POST("/wallet/topup", r.walletHandler.Topup)
	authGroup.POST("/wallet/spend", r.walletHandler.Spend)
	authGroup.POST("/wallet/reward", r.walletHandler.Reward)
	authGroup.GET("/wallet/transactions", r.historyHandler.GetTransactionHistory)

	// ギフト関連エンドポイント
	authGroup.POST("/gifts/send", r.giftHandler.Send)
	authGroup.GET("/gifts/received", r.giftHandler.ListReceived)
	authGroup.POST("/gifts/:receipt_id/redeem", r.giftHandler.Redeem)
	authGroup.POST("/gifts/reward", r.giftHandler.Reward)

	// ショップ関連エンドポイント
	authGroup.POST("/shop/purchase", r.shopHandler.Purchase)
	authGroup.GET("/shop/my-items", r.shopHandler.MyItems)
	authGroup.GET("/users/me/pro-status", r.shopHandler.ProStatus)
	authGroup.GET("/users/me/message-limit", r.shopHandler.MessageLimit)
	authGroup.POST("/users/me/increment-message-count", r.shopHandler.IncrementMessageCount)

	// MoMo決済関連エンドポイント
	authGroup.POST("/momo/create-payment", r.momoHandler.CreatePayment)
	authGroup.GET("/momo/orders/:order_id", r.momoHandler.CheckStatus)

	// 管理API（APIキー認証 + IP制限）
	adminGroup := e.Group("/admin", restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger))
	adminGroup.GET("/stats", r.adminHandler.GetStats)
	adminGroup.GET("/transactions", r.adminHandler.ListTransactions)
	adminGroup.POST("/users/:user_id/adjust", r.adminHandler.AdjustBalance)
	adminGroup.POST("/users/:user_id/ban", r.adminHandler.BanUser)
	adminGroup.POST("/users/:user_id/unban", r.adminHandler.UnbanUser)
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
