package storefront

import (
	"context"
	"strings"

	"github.com/hitoshi/shopfront/internal/model"
)

const (
	// hiddenProductTag が付いた商品は一覧・検索結果から除外する。
	hiddenProductTag = "frontend-hidden"

	// hiddenCollectionPrefix で始まるコレクションは内部用として非公開にする。
	hiddenCollectionPrefix = "hidden-"
)

// reshapeProduct はワイヤー表現をドメインモデルへ変換する。
// 説明HTMLはサニタイズし、altTextが空の画像には商品タイトルを補完する。
func (c *Client) reshapeProduct(wp wireProduct) *model.Product {
	p := &model.Product{
		ID:              wp.ID,
		Handle:          wp.Handle,
		Title:           wp.Title,
		Description:     wp.Description,
		DescriptionHTML: wp.DescriptionHTML,
		Tags:            wp.Tags,
	}
	if c.sanitizer != nil {
		p.DescriptionHTML = c.sanitizer.Sanitize(wp.DescriptionHTML)
	}

	variants := flatten(wp.Variants)
	p.Variants = make([]model.ProductVariant, 0, len(variants))
	for _, v := range variants {
		p.Variants = append(p.Variants, model.ProductVariant{
			ID:               v.ID,
			Title:            v.Title,
			AvailableForSale: v.AvailableForSale,
			Price:            v.Price.toModel(),
		})
	}

	images := flatten(wp.Images)
	p.Images = make([]model.ProductImage, 0, len(images))
	for _, img := range images {
		alt := img.AltText
		if alt == "" {
			alt = wp.Title
		}
		p.Images = append(p.Images, model.ProductImage{
			URL:     img.URL,
			AltText: alt,
			Width:   img.Width,
			Height:  img.Height,
		})
	}
	return p
}

func isHiddenProduct(tags []string) bool {
	for _, t := range tags {
		if t == hiddenProductTag {
			return true
		}
	}
	return false
}

// GetProduct はハンドルで商品を1件取得する。
// 存在しない場合は(nil, nil)を返す。非表示タグ付きの商品は
// 直接アクセスなら返す（一覧からのみ除外する）。
func (c *Client) GetProduct(ctx context.Context, handle string) (*model.Product, error) {
	var data struct {
		Product *wireProduct `json:"product"`
	}
	if err := c.execute(ctx, getProductQuery, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, nil
	}
	return c.reshapeProduct(*data.Product), nil
}

// GetProducts は商品の一覧・検索結果を取得する。
// 非表示タグ付きの商品は結果から除外する。
func (c *Client) GetProducts(ctx context.Context, query, sortKey string, reverse bool) ([]*model.Product, error) {
	variables := map[string]interface{}{"reverse": reverse}
	if query != "" {
		variables["query"] = query
	}
	if sortKey != "" {
		variables["sortKey"] = sortKey
	}

	var data struct {
		Products connection[wireProduct] `json:"products"`
	}
	if err := c.execute(ctx, getProductsQuery, variables, &data); err != nil {
		return nil, err
	}

	wireProducts := flatten(data.Products)
	products := make([]*model.Product, 0, len(wireProducts))
	for _, wp := range wireProducts {
		if isHiddenProduct(wp.Tags) {
			continue
		}
		products = append(products, c.reshapeProduct(wp))
	}
	return products, nil
}

// GetCollectionProducts はコレクション内の商品一覧を取得する。
// コレクションが存在しない場合は空スライスを返す。
func (c *Client) GetCollectionProducts(ctx context.Context, handle, sortKey string, reverse bool) ([]*model.Product, error) {
	variables := map[string]interface{}{"handle": handle, "reverse": reverse}
	if sortKey != "" {
		variables["sortKey"] = sortKey
	}

	var data struct {
		Collection *struct {
			Products connection[wireProduct] `json:"products"`
		} `json:"collection"`
	}
	if err := c.execute(ctx, getCollectionProductsQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return []*model.Product{}, nil
	}

	wireProducts := flatten(data.Collection.Products)
	products := make([]*model.Product, 0, len(wireProducts))
	for _, wp := range wireProducts {
		if isHiddenProduct(wp.Tags) {
			continue
		}
		products = append(products, c.reshapeProduct(wp))
	}
	return products, nil
}

// GetCollections はコレクションの一覧を取得する。
// hidden-で始まるコレクションは除外する。
func (c *Client) GetCollections(ctx context.Context) ([]*model.Collection, error) {
	var data struct {
		Collections connection[wireCollection] `json:"collections"`
	}
	if err := c.execute(ctx, getCollectionsQuery, nil, &data); err != nil {
		return nil, err
	}

	wireCollections := flatten(data.Collections)
	collections := make([]*model.Collection, 0, len(wireCollections))
	for _, wc := range wireCollections {
		if strings.HasPrefix(wc.Handle, hiddenCollectionPrefix) {
			continue
		}
		collections = append(collections, &model.Collection{
			Handle:      wc.Handle,
			Title:       wc.Title,
			Description: wc.Description,
			Path:        "/search/" + wc.Handle,
		})
	}
	return collections, nil
}
