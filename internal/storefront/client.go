// Package storefront はコマースプラットフォームのStorefront GraphQL APIへの
// ゲートウェイを提供する。カートと商品カタログの正本はすべてリモート側にあり、
// このパッケージはローカルに状態を持たない。
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/shopfront/internal/model"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

// Recorder はアップストリーム呼び出しの計測を受け取る。
type Recorder interface {
	ObserveUpstream(api string, status int, duration time.Duration)
}

// Client はStorefront APIのGraphQLクライアント。
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	sanitizer   Sanitizer
	recorder    Recorder
	logger      *slog.Logger
}

// Sanitizer は商品説明HTMLのサニタイズを行う。
type Sanitizer interface {
	Sanitize(html string) string
}

// ClientOption はClientの生成オプション。
type ClientOption func(*Client)

// WithHTTPClient はHTTPクライアントを差し替える。
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithSanitizer は商品説明のサニタイザーを設定する。
func WithSanitizer(s Sanitizer) ClientOption {
	return func(c *Client) { c.sanitizer = s }
}

// WithRecorder はメトリクスレコーダーを設定する。
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// WithLogger はロガーを設定する。
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient はClientを生成する。
func NewClient(endpoint, accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// graphqlRequest はGraphQLリクエストボディ。
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlError はGraphQLレスポンスのerrors配列の1要素。
type graphqlError struct {
	Message string `json:"message"`
}

// execute はGraphQLクエリを実行し、dataフィールドをdstにデコードする。
// HTTPレベルの失敗とerrors配列はともにTransportErrorとして返す。
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, dst interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(0, start)
		return &model.TransportError{Err: err}
	}
	defer resp.Body.Close()
	c.record(resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read storefront response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("storefront API returned non-200 status",
			slog.Int("status", resp.StatusCode))
		return &model.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("storefront API returned status %d", resp.StatusCode),
		}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to parse storefront response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		c.logger.Warn("storefront API returned graphql errors",
			slog.String("message", envelope.Errors[0].Message))
		return &model.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("graphql error: %s", envelope.Errors[0].Message),
		}
	}

	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			return fmt.Errorf("failed to decode storefront data: %w", err)
		}
	}
	return nil
}

func (c *Client) record(status int, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream("storefront", status, time.Since(start))
	}
}
