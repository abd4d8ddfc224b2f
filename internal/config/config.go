// Package config はアプリケーション全体の設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Commerce platform
	ShopID                string
	StoreDomain           string
	StorefrontAccessToken string
	StorefrontAPIVersion  string

	// Customer Account API (OAuth)
	CustomerClientID   string
	CustomerAPIVersion string
	CustomerAPIURL     string
	AuthBaseURL        string

	// Session
	SessionMaxAge int // トークンTTLが応答に含まれない場合のデフォルト（秒）

	// Upstream
	UpstreamTimeout time.Duration

	// Rate Limit
	RateLimitGeneral int
	RateLimitCartMut int

	// Cart
	DefaultCurrency string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.ShopID = os.Getenv("SHOP_ID")
	if cfg.ShopID == "" {
		missing = append(missing, "SHOP_ID")
	}

	cfg.StoreDomain = os.Getenv("STORE_DOMAIN")
	if cfg.StoreDomain == "" {
		missing = append(missing, "STORE_DOMAIN")
	}

	cfg.StorefrontAccessToken = os.Getenv("STOREFRONT_ACCESS_TOKEN")
	if cfg.StorefrontAccessToken == "" {
		missing = append(missing, "STOREFRONT_ACCESS_TOKEN")
	}

	cfg.CustomerClientID = os.Getenv("CUSTOMER_CLIENT_ID")
	if cfg.CustomerClientID == "" {
		missing = append(missing, "CUSTOMER_CLIENT_ID")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.StorefrontAPIVersion = getEnvString("STOREFRONT_API_VERSION", "2024-07")
	cfg.CustomerAPIVersion = getEnvString("CUSTOMER_API_VERSION", "2025-07")
	cfg.CustomerAPIURL = getEnvString("CUSTOMER_API_URL",
		fmt.Sprintf("https://shopify.com/%s/account/customer/api/%s/graphql", cfg.ShopID, cfg.CustomerAPIVersion))
	cfg.AuthBaseURL = getEnvString("AUTH_BASE_URL",
		fmt.Sprintf("https://shopify.com/authentication/%s", cfg.ShopID))
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 3600)
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCartMut = getEnvInt("RATE_LIMIT_CART_MUTATION", 30)
	cfg.DefaultCurrency = getEnvString("DEFAULT_CURRENCY", "USD")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// StorefrontAPIURL はストアフロントGraphQLエンドポイントのURLを返す。
func (c *Config) StorefrontAPIURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, c.StorefrontAPIVersion)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
