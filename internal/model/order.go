package model

import "time"

// Order はビューごとに取得される注文の不変スナップショット。キャッシュしない。
type Order struct {
	ID                string        `json:"id"`
	OrderNumber       int           `json:"orderNumber"`
	ProcessedAt       time.Time     `json:"processedAt"`
	FulfillmentStatus string        `json:"fulfillmentStatus"`
	FinancialStatus   string        `json:"financialStatus"`
	SubtotalPrice     Money         `json:"subtotalPrice"`
	TotalShipping     Money         `json:"totalShipping"`
	TotalTax          Money         `json:"totalTax"`
	TotalPrice        Money         `json:"totalPrice"`
	ShippingAddress   *Address      `json:"shippingAddress,omitempty"`
	BillingAddress    *Address      `json:"billingAddress,omitempty"`
	LineItems         []OrderLine   `json:"lineItems"`
	Fulfillments      []Fulfillment `json:"fulfillments"`
}

// OrderLine は注文内の1つの商品明細を表す。カートのCartLineとは別物。
type OrderLine struct {
	Title        string `json:"title"`
	VariantTitle string `json:"variantTitle,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        Money  `json:"price"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// Fulfillment は注文の発送情報を表す。
type Fulfillment struct {
	Status          string    `json:"status"`
	TrackingCompany string    `json:"trackingCompany,omitempty"`
	TrackingNumber  string    `json:"trackingNumber,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
