// Package account はCustomer Account GraphQL APIへのゲートウェイを提供する。
// 読み取り系はセッション無し・期限切れ・障害のすべてで(nil, nil)を返し、
// 「ログアウト状態」をエラーではなく第一級の結果として扱う。
// 変更系のみがErrNotAuthenticatedを返す。
package account

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

const defaultOrdersPageSize = 20

// Recorder はアップストリーム呼び出しの計測を受け取る。
type Recorder interface {
	ObserveUpstream(api string, status int, duration time.Duration)
}

// Gateway はCustomer Account APIのクライアント。
type Gateway struct {
	endpoint   string
	httpClient *http.Client
	recorder   Recorder
	logger     *slog.Logger
}

// GatewayOption はGatewayの生成オプション。
type GatewayOption func(*Gateway)

// WithHTTPClient はHTTPクライアントを差し替える。
func WithHTTPClient(hc *http.Client) GatewayOption {
	return func(g *Gateway) { g.httpClient = hc }
}

// WithRecorder はメトリクスレコーダーを設定する。
func WithRecorder(r Recorder) GatewayOption {
	return func(g *Gateway) { g.recorder = r }
}

// WithLogger はロガーを設定する。
func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway はGatewayを生成する。
func NewGateway(endpoint string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// execute は顧客アクセストークン付きでGraphQLクエリを実行する。
// トークンはAuthorizationヘッダーにそのまま渡す（Bearerプレフィックスは付けない）。
func (g *Gateway) execute(ctx context.Context, accessToken, query string, variables map[string]interface{}, dst interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal customer API request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create customer API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", accessToken)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.record(0, start)
		return &model.TransportError{Err: err}
	}
	defer resp.Body.Close()
	g.record(resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read customer API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("customer API returned non-200 status",
			slog.Int("status", resp.StatusCode))
		return &model.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("customer API returned status %d", resp.StatusCode),
		}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to parse customer API response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		g.logger.Warn("customer API returned graphql errors",
			slog.String("message", envelope.Errors[0].Message))
		return &model.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("graphql error: %s", envelope.Errors[0].Message),
		}
	}

	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			return fmt.Errorf("failed to decode customer API data: %w", err)
		}
	}
	return nil
}

func (g *Gateway) record(status int, start time.Time) {
	if g.recorder != nil {
		g.recorder.ObserveUpstream("customer", status, time.Since(start))
	}
}

// GetCustomer は顧客プロファイルを取得する。
// セッションが無い場合はネットワークを呼ばずに(nil, nil)を返す。
// 期限切れトークン・障害の場合もログだけ残して(nil, nil)を返す。
func (g *Gateway) GetCustomer(ctx context.Context, sess *model.Session) (*model.Customer, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, nil
	}

	var data struct {
		Customer *wireCustomer `json:"customer"`
	}
	if err := g.execute(ctx, sess.AccessToken, getCustomerQuery, nil, &data); err != nil {
		g.logger.Info("customer profile fetch failed, treating as logged out",
			slog.String("error", err.Error()))
		return nil, nil
	}
	if data.Customer == nil {
		return nil, nil
	}
	return data.Customer.toModel(), nil
}

// GetOrders は注文履歴を新しい順に取得する。
// firstが0以下の場合は既定の20件。未認証・障害では(nil, nil)を返す。
func (g *Gateway) GetOrders(ctx context.Context, sess *model.Session, first int) ([]*model.Order, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, nil
	}
	if first <= 0 {
		first = defaultOrdersPageSize
	}

	var data struct {
		Customer *struct {
			Orders connection[wireOrder] `json:"orders"`
		} `json:"customer"`
	}
	variables := map[string]interface{}{"first": first}
	if err := g.execute(ctx, sess.AccessToken, getOrdersQuery, variables, &data); err != nil {
		g.logger.Info("order history fetch failed, treating as logged out",
			slog.String("error", err.Error()))
		return nil, nil
	}
	if data.Customer == nil {
		return nil, nil
	}

	wireOrders := flatten(data.Customer.Orders)
	orders := make([]*model.Order, 0, len(wireOrders))
	for _, wo := range wireOrders {
		orders = append(orders, wo.toModel())
	}
	return orders, nil
}

// GetOrder は注文を1件取得する。
// 未認証・障害・存在しないIDのすべてで(nil, nil)を返す。
// 他人の注文IDはリモート側の認可でnullになるため、ここで追加の検査はしない。
func (g *Gateway) GetOrder(ctx context.Context, sess *model.Session, orderID string) (*model.Order, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, nil
	}

	var data struct {
		Order *wireOrder `json:"order"`
	}
	variables := map[string]interface{}{"orderId": orderID}
	if err := g.execute(ctx, sess.AccessToken, getOrderQuery, variables, &data); err != nil {
		g.logger.Info("order fetch failed, treating as logged out",
			slog.String("error", err.Error()))
		return nil, nil
	}
	if data.Order == nil {
		return nil, nil
	}
	return data.Order.toModel(), nil
}

// ProfileInput はプロファイル更新の入力。
type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateProfile は顧客プロファイルを更新する。
// セッションが無い場合はErrNotAuthenticated、userErrorsはValidationErrorとして返す。
func (g *Gateway) UpdateProfile(ctx context.Context, sess *model.Session, input ProfileInput) error {
	if sess == nil || sess.AccessToken == "" {
		return model.ErrNotAuthenticated
	}

	var data struct {
		CustomerUpdate struct {
			UserErrors []model.UserError `json:"userErrors"`
		} `json:"customerUpdate"`
	}
	variables := map[string]interface{}{"input": input}
	if err := g.execute(ctx, sess.AccessToken, updateCustomerMutation, variables, &data); err != nil {
		return err
	}
	if ve := model.NewValidationError(data.CustomerUpdate.UserErrors); ve != nil {
		return ve
	}
	return nil
}

// AddressInput は住所作成の入力。
type AddressInput struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province,omitempty"`
	Zip         string `json:"zip"`
	Country     string `json:"territoryCode"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// CreateAddress は住所を作成し、作成された住所のIDを返す。
func (g *Gateway) CreateAddress(ctx context.Context, sess *model.Session, input AddressInput) (string, error) {
	if sess == nil || sess.AccessToken == "" {
		return "", model.ErrNotAuthenticated
	}

	var data struct {
		CustomerAddressCreate struct {
			CustomerAddress *struct {
				ID string `json:"id"`
			} `json:"customerAddress"`
			UserErrors []model.UserError `json:"userErrors"`
		} `json:"customerAddressCreate"`
	}
	variables := map[string]interface{}{"address": input}
	if err := g.execute(ctx, sess.AccessToken, createAddressMutation, variables, &data); err != nil {
		return "", err
	}
	if ve := model.NewValidationError(data.CustomerAddressCreate.UserErrors); ve != nil {
		return "", ve
	}
	if data.CustomerAddressCreate.CustomerAddress == nil {
		return "", &model.TransportError{Err: fmt.Errorf("address create returned no address")}
	}
	return data.CustomerAddressCreate.CustomerAddress.ID, nil
}

// DeleteAddress は住所を削除する。
func (g *Gateway) DeleteAddress(ctx context.Context, sess *model.Session, addressID string) error {
	if sess == nil || sess.AccessToken == "" {
		return model.ErrNotAuthenticated
	}

	var data struct {
		CustomerAddressDelete struct {
			UserErrors []model.UserError `json:"userErrors"`
		} `json:"customerAddressDelete"`
	}
	variables := map[string]interface{}{"addressId": addressID}
	if err := g.execute(ctx, sess.AccessToken, deleteAddressMutation, variables, &data); err != nil {
		return err
	}
	if ve := model.NewValidationError(data.CustomerAddressDelete.UserErrors); ve != nil {
		return ve
	}
	return nil
}

// SetDefaultAddress は指定した住所をデフォルトに設定する。
func (g *Gateway) SetDefaultAddress(ctx context.Context, sess *model.Session, addressID string) error {
	if sess == nil || sess.AccessToken == "" {
		return model.ErrNotAuthenticated
	}

	var data struct {
		CustomerAddressUpdate struct {
			UserErrors []model.UserError `json:"userErrors"`
		} `json:"customerAddressUpdate"`
	}
	variables := map[string]interface{}{"addressId": addressID}
	if err := g.execute(ctx, sess.AccessToken, setDefaultAddressMutation, variables, &data); err != nil {
		return err
	}
	if ve := model.NewValidationError(data.CustomerAddressUpdate.UserErrors); ve != nil {
		return ve
	}
	return nil
}
