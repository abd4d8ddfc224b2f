// Package auth はコマースプラットフォームのCustomer Account APIに対する
// OAuth認可コードフロー（ログインURL生成、コード交換、ログアウトURL生成）を提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/shopfront/internal/model"
)

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	logoutPath    = "/logout"

	// requestedScopes はCustomer Account APIのフルアクセススコープ。
	requestedScopes = "openid email customer-account-api:full"
)

// ProviderConfig はOAuthプロバイダーの設定。
type ProviderConfig struct {
	ClientID string

	// BaseURL は認可エンドポイント群のベースURL
	// （例: https://shopify.com/authentication/{shop_id}）。
	BaseURL string

	// テスト用にオーバーライド可能なURL
	AuthorizeURL string
	TokenURL     string
	LogoutURL    string
}

// TokenSet はトークンエンドポイントから取得したトークンの組。
type TokenSet struct {
	AccessToken string
	IDToken     string
	ExpiresIn   int
}

// Provider はCustomer Account APIのOAuth 2.0フローを実装する。
type Provider struct {
	config     ProviderConfig
	httpClient *http.Client
}

// NewProvider はProviderを生成する。
// httpClientがnilの場合はhttp.DefaultClientを使用する。
func NewProvider(config ProviderConfig, httpClient *http.Client) *Provider {
	if config.AuthorizeURL == "" {
		config.AuthorizeURL = config.BaseURL + authorizePath
	}
	if config.TokenURL == "" {
		config.TokenURL = config.BaseURL + tokenPath
	}
	if config.LogoutURL == "" {
		config.LogoutURL = config.BaseURL + logoutPath
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Provider{config: config, httpClient: httpClient}
}

// BuildLoginURL は認可エンドポイントのURLを生成する。純粋関数でI/Oは行わない。
func (p *Provider) BuildLoginURL(redirectURI, state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"response_type": {"code"},
		"scope":         {requestedScopes},
		"redirect_uri":  {redirectURI},
		"state":         {state},
	}
	return p.config.AuthorizeURL + "?" + params.Encode()
}

// tokenResponse はトークンエンドポイントのレスポンス。
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ExchangeCode は認可コードをアクセストークンに交換する。
// レスポンスにaccess_tokenが含まれない場合はAuthExchangeErrorを返す。
// このメソッド自体はセッションを変更しないため、失敗後のリトライは安全。
func (p *Provider) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenSet, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {p.config.ClientID},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &model.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &model.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("token endpoint returned status %d", resp.StatusCode),
		}
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, &model.AuthExchangeError{Reason: "token response is not valid JSON"}
	}

	if tokens.AccessToken == "" {
		return nil, &model.AuthExchangeError{Reason: "no access_token in response"}
	}

	return &TokenSet{
		AccessToken: tokens.AccessToken,
		IDToken:     tokens.IDToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, nil
}

// BuildLogoutURL はリモートログアウトエンドポイントのURLを生成する。
// idTokenが空でない場合のみid_token_hintを含める。
// ローカルCookieのクリアだけではリモートセッションが生き残るため、
// 呼び出し元はこのURLへブラウザをリダイレクトすること。
func (p *Provider) BuildLogoutURL(postLogoutRedirectURI, idToken string) string {
	params := url.Values{
		"post_logout_redirect_uri": {postLogoutRedirectURI},
	}
	if idToken != "" {
		params.Set("id_token_hint", idToken)
	}
	return p.config.LogoutURL + "?" + params.Encode()
}
