// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/shopfront/internal/account"
	"github.com/hitoshi/shopfront/internal/auth"
	"github.com/hitoshi/shopfront/internal/cache"
	"github.com/hitoshi/shopfront/internal/cart"
	"github.com/hitoshi/shopfront/internal/config"
	"github.com/hitoshi/shopfront/internal/handler"
	"github.com/hitoshi/shopfront/internal/logger"
	"github.com/hitoshi/shopfront/internal/metrics"
	"github.com/hitoshi/shopfront/internal/middleware"
	"github.com/hitoshi/shopfront/internal/security"
	"github.com/hitoshi/shopfront/internal/session"
	"github.com/hitoshi/shopfront/internal/storefront"
)

// cartCacheTTL はカートキャッシュの有効期間。
// 変更系の成功時にタグで無効化されるため、失効はフォールバックに過ぎない。
const cartCacheTTL = 5 * time.Minute

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 設定読み込みの失敗もログに出せるよう、ログを先に初期化する
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("store_domain", cfg.StoreDomain),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	log := slog.Default()

	// 1. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. セッションストアとOAuthプロバイダー
	sessions := session.New(cfg.CookieSecure, cfg.CookieDomain)
	oauthProvider := auth.NewProvider(auth.ProviderConfig{
		ClientID: cfg.CustomerClientID,
		BaseURL:  cfg.AuthBaseURL,
	}, &http.Client{Timeout: cfg.UpstreamTimeout})

	// 3. 上流APIクライアント
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	sanitizer := security.NewDescriptionSanitizer()

	storefrontClient := storefront.NewClient(
		cfg.StorefrontAPIURL(),
		cfg.StorefrontAccessToken,
		storefront.WithHTTPClient(upstreamClient),
		storefront.WithSanitizer(sanitizer),
		storefront.WithRecorder(collector),
		storefront.WithLogger(log),
	)

	accountGateway := account.NewGateway(
		cfg.CustomerAPIURL,
		account.WithHTTPClient(upstreamClient),
		account.WithRecorder(collector),
		account.WithLogger(log),
	)

	// 4. カートサービス
	cartCache := cache.New(cartCacheTTL)
	cartActions := cart.NewActions(
		storefrontClient, accountGateway, cartCache, collector,
		cfg.StoreDomain, log,
	)

	// 5. レート制限（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.CartMutRate = rate.Limit(float64(cfg.RateLimitCartMut) / 60.0)
	rateLimiterCfg.CartMutBurst = cfg.RateLimitCartMut
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	csrfConfig := middleware.CSRFConfig{
		CookieSecure: cfg.CookieSecure,
		CookieDomain: cfg.CookieDomain,
	}

	router := handler.NewRouter(handler.RouterDeps{
		Logger:         log,
		SessionStore:   sessions,
		RateLimiter:    rateLimiter,
		CSRFConfig:     csrfConfig,
		AllowedOrigin:  cfg.CORSAllowedOrigin,
		MetricsHandler: metrics.Handler(registry),

		Auth:     handler.NewAuthHandler(oauthProvider, sessions, collector, cfg.BaseURL, cfg.CookieSecure, cfg.CookieDomain, log),
		Cart:     handler.NewCartHandler(cartActions, cfg.CookieSecure, cfg.CookieDomain, log),
		Customer: handler.NewCustomerHandler(accountGateway, log),
		Product:  handler.NewProductHandler(storefrontClient, log),
	})

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
