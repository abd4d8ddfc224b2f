package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hitoshi/shopfront/internal/cache"
	"github.com/hitoshi/shopfront/internal/model"
	"github.com/hitoshi/shopfront/internal/storefront"
)

// TagCart はカート関連のキャッシュエントリに付けるタグ。
// 変更成功時にこのタグを一括無効化する。
const TagCart = "cart"

// Gateway はカート操作に必要なStorefront APIの操作。
type Gateway interface {
	CreateCart(ctx context.Context, buyerEmail string) (*model.Cart, error)
	GetCart(ctx context.Context, cartID string) (*model.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []storefront.LineInput) (*model.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []storefront.LineUpdateInput) (*model.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error)
	UpdateBuyerIdentity(ctx context.Context, cartID, email string) (*model.Cart, error)
}

// CustomerReader はログイン中の顧客プロファイルの読み取り。
type CustomerReader interface {
	GetCustomer(ctx context.Context, sess *model.Session) (*model.Customer, error)
}

// Recorder はカート操作の結果を計測する。
type Recorder interface {
	ObserveCartAction(action, result string)
}

// Actions はカート操作のアプリケーションサービス。
// HTTPの関心事（Cookie、ステータスコード）はハンドラー側が持つ。
type Actions struct {
	gateway     Gateway
	customers   CustomerReader
	cache       *cache.Store
	recorder    Recorder
	storeDomain string
	logger      *slog.Logger
}

// NewActions はActionsを生成する。
// customers、cache、recorderはnilでもよい。
func NewActions(gateway Gateway, customers CustomerReader, cacheStore *cache.Store, recorder Recorder, storeDomain string, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{
		gateway:     gateway,
		customers:   customers,
		cache:       cacheStore,
		recorder:    recorder,
		storeDomain: storeDomain,
		logger:      logger,
	}
}

func (a *Actions) record(action, result string) {
	if a.recorder != nil {
		a.recorder.ObserveCartAction(action, result)
	}
}

func (a *Actions) invalidate() {
	if a.cache != nil {
		a.cache.Invalidate(TagCart)
	}
}

// CreateCart は新しいカートを作成する。
// ログイン中であれば顧客メールをbuyerIdentityとして関連付けるが、
// プロファイル取得の失敗でカート作成は止めない（ベストエフォート）。
func (a *Actions) CreateCart(ctx context.Context, sess *model.Session) (*model.Cart, *model.APIError) {
	email := a.buyerEmail(ctx, sess)

	cart, err := a.gateway.CreateCart(ctx, email)
	if err != nil {
		a.logger.Error("failed to create cart", slog.String("error", err.Error()))
		a.record("create", "error")
		return nil, model.NewCartActionError("作成")
	}
	a.record("create", "success")
	a.invalidate()
	return cart, nil
}

// GetCart はカートを取得する。キャッシュがあればキャッシュ経由で読む。
// カートが存在しない場合は(nil, nil)を返す。
func (a *Actions) GetCart(ctx context.Context, cartID string) (*model.Cart, *model.APIError) {
	if cartID == "" {
		return nil, nil
	}

	cacheKey := "cart:" + cartID
	if a.cache != nil {
		if v, ok := a.cache.Get(cacheKey); ok {
			if cart, ok := v.(*model.Cart); ok {
				return cart, nil
			}
		}
	}

	cart, err := a.gateway.GetCart(ctx, cartID)
	if err != nil {
		a.logger.Error("failed to fetch cart", slog.String("error", err.Error()))
		return nil, model.NewCartActionError("取得")
	}
	if cart == nil {
		return nil, nil
	}
	if a.cache != nil {
		a.cache.Set(cacheKey, cart, TagCart)
	}
	return cart, nil
}

// AddItem はカートに商品を1つ追加する。ラインのマージはリモート側が行う。
func (a *Actions) AddItem(ctx context.Context, cartID, merchandiseID string) (*model.Cart, *model.APIError) {
	if cartID == "" || merchandiseID == "" {
		a.record("add", "invalid")
		return nil, model.NewInvalidRequestError("cart ID and merchandise ID are required")
	}

	cart, err := a.gateway.AddLines(ctx, cartID, []storefront.LineInput{
		{MerchandiseID: merchandiseID, Quantity: 1},
	})
	if err != nil {
		a.logger.Error("failed to add cart line",
			slog.String("merchandise_id", merchandiseID),
			slog.String("error", err.Error()))
		a.record("add", "error")
		return nil, model.NewCartActionError("商品追加")
	}
	a.record("add", "success")
	a.invalidate()
	return cart, nil
}

// RemoveItem は指定したmerchandiseのラインをカートから削除する。
// 対象ラインが存在しない場合はItemNotInCartエラーを返す。
func (a *Actions) RemoveItem(ctx context.Context, cartID, merchandiseID string) (*model.Cart, *model.APIError) {
	if cartID == "" {
		a.record("remove", "invalid")
		return nil, model.NewCartNotFoundError()
	}

	cart, err := a.gateway.GetCart(ctx, cartID)
	if err != nil {
		a.record("remove", "error")
		return nil, model.NewCartActionError("商品削除")
	}
	if cart == nil {
		a.record("remove", "invalid")
		return nil, model.NewCartNotFoundError()
	}

	line := findLine(cart, merchandiseID)
	if line == nil {
		a.record("remove", "invalid")
		return nil, model.NewItemNotInCartError()
	}

	updated, err := a.gateway.RemoveLines(ctx, cartID, []string{line.ID})
	if err != nil {
		a.logger.Error("failed to remove cart line",
			slog.String("merchandise_id", merchandiseID),
			slog.String("error", err.Error()))
		a.record("remove", "error")
		return nil, model.NewCartActionError("商品削除")
	}
	a.record("remove", "success")
	a.invalidate()
	return updated, nil
}

// UpdateItemQuantity は指定したmerchandiseの数量を絶対値で設定する。
// 数量0以下は削除、既存ラインがあれば更新、無ければ追加の3分岐。
func (a *Actions) UpdateItemQuantity(ctx context.Context, cartID, merchandiseID string, quantity int) (*model.Cart, *model.APIError) {
	if cartID == "" {
		a.record("update", "invalid")
		return nil, model.NewCartNotFoundError()
	}
	if merchandiseID == "" {
		a.record("update", "invalid")
		return nil, model.NewInvalidRequestError("merchandise ID is required")
	}

	cart, err := a.gateway.GetCart(ctx, cartID)
	if err != nil {
		a.record("update", "error")
		return nil, model.NewCartActionError("数量変更")
	}
	if cart == nil {
		a.record("update", "invalid")
		return nil, model.NewCartNotFoundError()
	}

	line := findLine(cart, merchandiseID)

	var updated *model.Cart
	switch {
	case quantity <= 0:
		if line == nil {
			// 存在しないラインの削除は冪等に成功とする
			a.record("update", "success")
			return cart, nil
		}
		updated, err = a.gateway.RemoveLines(ctx, cartID, []string{line.ID})
	case line != nil:
		updated, err = a.gateway.UpdateLines(ctx, cartID, []storefront.LineUpdateInput{
			{ID: line.ID, MerchandiseID: merchandiseID, Quantity: quantity},
		})
	default:
		updated, err = a.gateway.AddLines(ctx, cartID, []storefront.LineInput{
			{MerchandiseID: merchandiseID, Quantity: quantity},
		})
	}
	if err != nil {
		a.logger.Error("failed to update cart line quantity",
			slog.String("merchandise_id", merchandiseID),
			slog.Int("quantity", quantity),
			slog.String("error", err.Error()))
		a.record("update", "error")
		return nil, model.NewCartActionError("数量変更")
	}
	a.record("update", "success")
	a.invalidate()
	return updated, nil
}

// CheckoutURL はチェックアウトへの遷移先URLを返す。
// ログイン中であれば購入者情報をカートに関連付ける（ベストエフォート）。
func (a *Actions) CheckoutURL(ctx context.Context, cartID string, sess *model.Session) (string, *model.APIError) {
	if cartID == "" {
		return "", model.NewCartNotFoundError()
	}

	cart, err := a.gateway.GetCart(ctx, cartID)
	if err != nil {
		return "", model.NewCheckoutFailedError()
	}
	if cart == nil {
		return "", model.NewCartNotFoundError()
	}

	if email := a.buyerEmail(ctx, sess); email != "" {
		if _, err := a.gateway.UpdateBuyerIdentity(ctx, cartID, email); err != nil {
			// 購入者情報の関連付け失敗でチェックアウトは止めない
			a.logger.Warn("failed to attach buyer identity before checkout",
				slog.String("error", err.Error()))
		}
	}

	checkoutURL, err := a.rewriteCheckoutURL(cart.CheckoutURL)
	if err != nil {
		a.logger.Error("invalid checkout URL from upstream", slog.String("error", err.Error()))
		return "", model.NewCheckoutFailedError()
	}
	return checkoutURL, nil
}

// rewriteCheckoutURL はプラットフォームの共有ドメイン形式
// （/cart/c/{token}）をストアドメインの形式（/checkouts/cn/{token}）へ
// 書き換える。最終URLはhttpsかつ設定済みドメインのみ許可する。
func (a *Actions) rewriteCheckoutURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("checkout URL is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse checkout URL: %w", err)
	}

	if token, ok := strings.CutPrefix(parsed.Path, "/cart/c/"); ok && token != "" {
		rewritten := &url.URL{
			Scheme:   "https",
			Host:     a.storeDomain,
			Path:     "/checkouts/cn/" + token,
			RawQuery: parsed.RawQuery,
		}
		return rewritten.String(), nil
	}

	if parsed.Scheme != "https" {
		return "", fmt.Errorf("checkout URL must be https, got %q", parsed.Scheme)
	}
	if parsed.Host != a.storeDomain {
		return "", fmt.Errorf("checkout URL host %q does not match store domain", parsed.Host)
	}
	return raw, nil
}

// buyerEmail はログイン中の顧客メールを返す。取得できない場合は空文字。
func (a *Actions) buyerEmail(ctx context.Context, sess *model.Session) string {
	if sess == nil || a.customers == nil {
		return ""
	}
	customer, err := a.customers.GetCustomer(ctx, sess)
	if err != nil || customer == nil {
		return ""
	}
	return customer.Email
}

func findLine(cart *model.Cart, merchandiseID string) *model.CartLine {
	for i := range cart.Lines {
		if cart.Lines[i].MerchandiseID == merchandiseID {
			return &cart.Lines[i]
		}
	}
	return nil
}
