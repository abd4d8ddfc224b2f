package storefront

import "github.com/hitoshi/shopfront/internal/model"

// connection はGraphQLのedges/nodeラッパー。
type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

// flatten はedges/nodeラッパーを外してノードのスライスを返す。
func flatten[T any](conn connection[T]) []T {
	nodes := make([]T, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

// wireMoney はStorefront APIの金額表現。
type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m wireMoney) toModel() model.Money {
	return model.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

// wireCartLine はカートラインのワイヤー表現。
type wireCartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount wireMoney `json:"totalAmount"`
	} `json:"cost"`
	Merchandise struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Product struct {
			Title string `json:"title"`
		} `json:"product"`
	} `json:"merchandise"`
}

// wireCart はカートのワイヤー表現。
type wireCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Cost        struct {
		SubtotalAmount wireMoney  `json:"subtotalAmount"`
		TotalAmount    wireMoney  `json:"totalAmount"`
		TotalTaxAmount *wireMoney `json:"totalTaxAmount"`
	} `json:"cost"`
	TotalQuantity int                      `json:"totalQuantity"`
	Lines         connection[wireCartLine] `json:"lines"`
}

// reshapeCart はワイヤー表現をドメインモデルへ変換する。
// totalTaxAmountが無い場合は"0.0"で補完する。
func reshapeCart(wc wireCart) *model.Cart {
	cart := &model.Cart{
		ID:            wc.ID,
		CheckoutURL:   wc.CheckoutURL,
		TotalQuantity: wc.TotalQuantity,
		Cost: model.CartCost{
			SubtotalAmount: wc.Cost.SubtotalAmount.toModel(),
			TotalAmount:    wc.Cost.TotalAmount.toModel(),
		},
	}
	if wc.Cost.TotalTaxAmount != nil {
		cart.Cost.TotalTaxAmount = wc.Cost.TotalTaxAmount.toModel()
	} else {
		cart.Cost.TotalTaxAmount = model.Money{
			Amount:       "0.0",
			CurrencyCode: wc.Cost.TotalAmount.CurrencyCode,
		}
	}

	lines := flatten(wc.Lines)
	cart.Lines = make([]model.CartLine, 0, len(lines))
	for _, l := range lines {
		title := l.Merchandise.Product.Title
		if title == "" {
			title = l.Merchandise.Title
		}
		cart.Lines = append(cart.Lines, model.CartLine{
			ID:            l.ID,
			MerchandiseID: l.Merchandise.ID,
			Title:         title,
			Quantity:      l.Quantity,
			Cost:          l.Cost.TotalAmount.toModel(),
		})
	}
	return cart
}

// wireProductVariant は商品バリアントのワイヤー表現。
type wireProductVariant struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	AvailableForSale bool      `json:"availableForSale"`
	Price            wireMoney `json:"price"`
}

// wireProductImage は商品画像のワイヤー表現。
type wireProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// wireProduct は商品のワイヤー表現。
type wireProduct struct {
	ID              string                         `json:"id"`
	Handle          string                         `json:"handle"`
	Title           string                         `json:"title"`
	Description     string                         `json:"description"`
	DescriptionHTML string                         `json:"descriptionHtml"`
	Tags            []string                       `json:"tags"`
	Variants        connection[wireProductVariant] `json:"variants"`
	Images          connection[wireProductImage]   `json:"images"`
}

// wireCollection はコレクションのワイヤー表現。
type wireCollection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
