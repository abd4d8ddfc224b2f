package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/shopfront/internal/middleware"
	"github.com/hitoshi/shopfront/internal/session"
)

// RouterDeps はルーター構築に必要な依存をまとめる。
type RouterDeps struct {
	Logger         *slog.Logger
	SessionStore   *session.Store
	RateLimiter    *middleware.RateLimiter
	CSRFConfig     middleware.CSRFConfig
	AllowedOrigin  string
	MetricsHandler http.Handler

	Auth     *AuthHandler
	Cart     *CartHandler
	Customer *CustomerHandler
	Product  *ProductHandler
}

// NewRouter はアプリケーション全体のルーターを構築する。
// ミドルウェアの適用順はCORS、セキュリティヘッダー、リカバリー、
// ロギング、セッションの順。セッションはロギングより後ろに置くと
// authenticatedフラグが常にfalseになるため順序を変えないこと。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSessionMiddleware(deps.SessionStore))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// OAuthフローはブラウザのトップレベルナビゲーションなのでCSRF検証の対象外
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.Auth.Login)
		r.Get("/callback", deps.Auth.Callback)
		// ログアウトはリンク遷移とフォーム送信の両方から使えるようにする
		r.Get("/logout", deps.Auth.Logout)
		r.Post("/logout", deps.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		r.Get("/products", deps.Product.ListProducts)
		r.Get("/products/{handle}", deps.Product.GetProduct)
		r.Get("/collections", deps.Product.ListCollections)
		r.Get("/collections/{handle}/products", deps.Product.ListCollectionProducts)

		r.Get("/customer/profile", deps.Customer.GetProfile)
		r.Put("/customer/profile", deps.Customer.UpdateProfile)
		r.Get("/customer/orders", deps.Customer.ListOrders)
		r.Get("/customer/orders/{orderID}", deps.Customer.GetOrder)
		r.Post("/customer/addresses", deps.Customer.CreateAddress)
		r.Delete("/customer/addresses/{addressID}", deps.Customer.DeleteAddress)
		r.Put("/customer/addresses/{addressID}/default", deps.Customer.SetDefaultAddress)

		// カート変更系は一般より厳しいレート制限を重ねる
		r.Route("/cart", func(r chi.Router) {
			r.Use(deps.RateLimiter.CartMutationMiddleware())

			r.Get("/", deps.Cart.GetCart)
			r.Post("/", deps.Cart.CreateCart)
			r.Post("/lines", deps.Cart.AddLine)
			r.Put("/lines", deps.Cart.UpdateLine)
			r.Delete("/lines", deps.Cart.RemoveLine)
			r.Post("/checkout", deps.Cart.Checkout)
		})
	})

	return r
}
