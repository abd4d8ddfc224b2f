package storefront

import (
	"context"

	"github.com/hitoshi/shopfront/internal/model"
)

// LineInput はカートへ追加するラインの入力。
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineUpdateInput は既存ラインの更新入力。
type LineUpdateInput struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CreateCart は新しいカートを作成する。
// buyerEmailが空でない場合はbuyerIdentityとして関連付ける。
func (c *Client) CreateCart(ctx context.Context, buyerEmail string) (*model.Cart, error) {
	variables := map[string]interface{}{}
	if buyerEmail != "" {
		variables["buyerIdentity"] = map[string]string{"email": buyerEmail}
	}

	var data struct {
		CartCreate struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartCreate"`
	}
	if err := c.execute(ctx, createCartMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartCreate.Cart == nil {
		return nil, &model.TransportError{Err: model.ErrNotFound}
	}
	return reshapeCart(*data.CartCreate.Cart), nil
}

// GetCart はカートを取得する。
// リモートがnullを返した場合（期限切れ・不明なID）は(nil, nil)を返す。
func (c *Client) GetCart(ctx context.Context, cartID string) (*model.Cart, error) {
	var data struct {
		Cart *wireCart `json:"cart"`
	}
	if err := c.execute(ctx, getCartQuery, map[string]interface{}{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, nil
	}
	return reshapeCart(*data.Cart), nil
}

// AddLines はカートにラインを追加する。
// 既存のmerchandiseを追加した場合のマージはリモート側が行う。
func (c *Client) AddLines(ctx context.Context, cartID string, lines []LineInput) (*model.Cart, error) {
	var data struct {
		CartLinesAdd struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesAdd"`
	}
	variables := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, addLinesMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartLinesAdd.Cart == nil {
		return nil, &model.TransportError{Err: model.ErrNotFound}
	}
	return reshapeCart(*data.CartLinesAdd.Cart), nil
}

// UpdateLines は既存ラインの数量を変更する。
func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []LineUpdateInput) (*model.Cart, error) {
	var data struct {
		CartLinesUpdate struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesUpdate"`
	}
	variables := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, updateLinesMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartLinesUpdate.Cart == nil {
		return nil, &model.TransportError{Err: model.ErrNotFound}
	}
	return reshapeCart(*data.CartLinesUpdate.Cart), nil
}

// RemoveLines は指定したラインをカートから削除する。
func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error) {
	var data struct {
		CartLinesRemove struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesRemove"`
	}
	variables := map[string]interface{}{"cartId": cartID, "lineIds": lineIDs}
	if err := c.execute(ctx, removeLinesMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartLinesRemove.Cart == nil {
		return nil, &model.TransportError{Err: model.ErrNotFound}
	}
	return reshapeCart(*data.CartLinesRemove.Cart), nil
}

// UpdateBuyerIdentity はカートに購入者のメールアドレスを関連付ける。
func (c *Client) UpdateBuyerIdentity(ctx context.Context, cartID, email string) (*model.Cart, error) {
	var data struct {
		CartBuyerIdentityUpdate struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartBuyerIdentityUpdate"`
	}
	variables := map[string]interface{}{
		"cartId":        cartID,
		"buyerIdentity": map[string]string{"email": email},
	}
	if err := c.execute(ctx, updateBuyerIdentityMutation, variables, &data); err != nil {
		return nil, err
	}
	if data.CartBuyerIdentityUpdate.Cart == nil {
		return nil, &model.TransportError{Err: model.ErrNotFound}
	}
	return reshapeCart(*data.CartBuyerIdentityUpdate.Cart), nil
}
