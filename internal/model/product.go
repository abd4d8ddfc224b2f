package model

// ProductVariant は商品のバリアント（購入可能な単位）を表す。
// カートのmerchandiseはバリアントを指す。
type ProductVariant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
}

// ProductImage は商品画像を表す。
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Product はストアフロントAPIから取得した商品を表す。
// DescriptionHTMLはサニタイズ済みのHTMLを保持する。
type Product struct {
	ID              string           `json:"id"`
	Handle          string           `json:"handle"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	DescriptionHTML string           `json:"descriptionHtml"`
	Tags            []string         `json:"tags,omitempty"`
	Variants        []ProductVariant `json:"variants"`
	Images          []ProductImage   `json:"images"`
}

// Collection は商品コレクションを表す。
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
}
