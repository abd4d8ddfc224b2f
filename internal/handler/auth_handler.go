package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hitoshi/shopfront/internal/auth"
	"github.com/hitoshi/shopfront/internal/model"
	"github.com/hitoshi/shopfront/internal/session"
)

const (
	// stateCookieName はCSRF対策のOAuth stateを保持するCookieの名前。
	stateCookieName = "oauth_state"
	// stateCookieMaxAge はstate Cookieの有効期間（秒）。認可画面の滞在時間分だけあればよい。
	stateCookieMaxAge = 600

	callbackPath = "/auth/callback"
)

// OAuthProviderInterface はOAuthプロバイダーが実装すべきインターフェース。
type OAuthProviderInterface interface {
	BuildLoginURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, redirectURI string) (*auth.TokenSet, error)
	BuildLogoutURL(postLogoutRedirectURI, idToken string) string
}

// AuthMetricsInterface はログイン結果の計測。
type AuthMetricsInterface interface {
	RecordAuthLogin(result string)
}

// AuthHandler はOAuth認可コードフローのHTTPハンドラー。
type AuthHandler struct {
	provider     OAuthProviderInterface
	sessions     *session.Store
	metrics      AuthMetricsInterface
	baseURL      string
	cookieSecure bool
	cookieDomain string
	logger       *slog.Logger
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilでもよい。
func NewAuthHandler(provider OAuthProviderInterface, sessions *session.Store, metrics AuthMetricsInterface, baseURL string, cookieSecure bool, cookieDomain string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		provider:     provider,
		sessions:     sessions,
		metrics:      metrics,
		baseURL:      baseURL,
		cookieSecure: cookieSecure,
		cookieDomain: cookieDomain,
		logger:       logger,
	}
}

func (h *AuthHandler) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordAuthLogin(result)
	}
}

func (h *AuthHandler) callbackURL() string {
	return h.baseURL + callbackPath
}

// Login はstateを発行して認可エンドポイントへリダイレクトする。
// GET /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, h.stateCookie(state, stateCookieMaxAge))

	loginURL := h.provider.BuildLoginURL(h.callbackURL(), state)
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Callback は認可コードをトークンに交換してセッションCookieを設定する。
// 交換に失敗してもセッションは変更しないため、ユーザーは再試行できる。
// GET /auth/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// stateは一度きり。検証結果に関わらずCookieを消す
	stateCookie, cookieErr := r.Cookie(stateCookieName)
	http.SetCookie(w, h.stateCookie("", -1))

	state := r.URL.Query().Get("state")
	if cookieErr != nil || stateCookie.Value == "" || stateCookie.Value != state {
		h.logger.Warn("oauth state mismatch", slog.String("path", r.URL.Path))
		h.recordLogin("error")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("state parameter mismatch"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.recordLogin("error")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("authorization code is missing"))
		return
	}

	tokens, err := h.provider.ExchangeCode(r.Context(), code, h.callbackURL())
	if err != nil {
		h.logger.Error("token exchange failed", slog.String("error", err.Error()))
		h.recordLogin("error")
		writeAPIErrorResponse(w, http.StatusBadGateway, model.NewAuthFailedError())
		return
	}

	h.sessions.Set(w, tokens.AccessToken, tokens.IDToken, tokens.ExpiresIn)
	h.recordLogin("success")
	http.Redirect(w, r, h.baseURL, http.StatusFound)
}

// Logout はローカルのセッションCookieを削除し、リモートのログアウト
// エンドポイントへリダイレクトする。ローカルのクリアだけではプロバイダー側の
// セッションが生き残るため、リダイレクトは省略できない。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var idToken string
	if sess := h.sessions.Get(r); sess != nil {
		idToken = sess.IDToken
	}

	h.sessions.Clear(w)
	http.Redirect(w, r, h.provider.BuildLogoutURL(h.baseURL, idToken), http.StatusFound)
}

func (h *AuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
