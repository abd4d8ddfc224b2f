package model

// Money は金額を表す。金額は小数文字列のままリモートAPIの形式を維持する。
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// CartCost はカート全体の金額内訳を表す。
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// CartLine はカート内の1つの商品エントリを表す。
// 数量は常に1以上。数量が0になったラインは保持されず削除される。
type CartLine struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Title         string `json:"title,omitempty"`
	Quantity      int    `json:"quantity"`
	Cost          Money  `json:"cost"`
}

// Cart はカートを表す。
// 正本はリモートプラットフォーム側にあり、cartId Cookieで参照される。
// 楽観的更新で生成されるローカルコピーは次の正本取得で必ず破棄される。
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
	Cost          CartCost   `json:"cost"`
}
