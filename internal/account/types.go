package account

import (
	"time"

	"github.com/hitoshi/shopfront/internal/model"
)

// connection はGraphQLのedges/nodeラッパー。
type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func flatten[T any](conn connection[T]) []T {
	nodes := make([]T, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m wireMoney) toModel() model.Money {
	return model.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type wireAddress struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber"`
}

func (a wireAddress) toModel() model.Address {
	return model.Address{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.Province,
		Zip:       a.Zip,
		Country:   a.Country,
		Phone:     a.PhoneNumber,
	}
}

// wireCustomer はCustomer Account APIの顧客表現。
type wireCustomer struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress *struct {
		EmailAddress string `json:"emailAddress"`
	} `json:"emailAddress"`
	PhoneNumber *struct {
		PhoneNumber string `json:"phoneNumber"`
	} `json:"phoneNumber"`
	DefaultAddress *struct {
		ID string `json:"id"`
	} `json:"defaultAddress"`
	Addresses connection[wireAddress] `json:"addresses"`
}

func (c wireCustomer) toModel() *model.Customer {
	customer := &model.Customer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
	if c.EmailAddress != nil {
		customer.Email = c.EmailAddress.EmailAddress
	}
	if c.PhoneNumber != nil {
		customer.Phone = c.PhoneNumber.PhoneNumber
	}
	if c.DefaultAddress != nil {
		customer.DefaultAddressID = c.DefaultAddress.ID
	}
	addresses := flatten(c.Addresses)
	customer.Addresses = make([]model.Address, 0, len(addresses))
	for _, a := range addresses {
		customer.Addresses = append(customer.Addresses, a.toModel())
	}
	return customer
}

type wireFulfillment struct {
	Status              string `json:"status"`
	TrackingInformation []struct {
		Company string `json:"company"`
		Number  string `json:"number"`
	} `json:"trackingInformation"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type wireOrderLine struct {
	Title        string    `json:"title"`
	VariantTitle string    `json:"variantTitle"`
	Quantity     int       `json:"quantity"`
	Price        wireMoney `json:"price"`
	Image        *struct {
		URL string `json:"url"`
	} `json:"image"`
}

// wireOrder はCustomer Account APIの注文表現。
type wireOrder struct {
	ID              string                      `json:"id"`
	Number          int                         `json:"number"`
	ProcessedAt     time.Time                   `json:"processedAt"`
	Fulfillments    connection[wireFulfillment] `json:"fulfillments"`
	FinancialStatus string                      `json:"financialStatus"`
	Subtotal        wireMoney                   `json:"subtotal"`
	TotalShipping   wireMoney                   `json:"totalShipping"`
	TotalTax        wireMoney                   `json:"totalTax"`
	TotalPrice      wireMoney                   `json:"totalPrice"`
	ShippingAddress *wireAddress                `json:"shippingAddress"`
	BillingAddress  *wireAddress                `json:"billingAddress"`
	LineItems       connection[wireOrderLine]   `json:"lineItems"`
}

func (o wireOrder) toModel() *model.Order {
	order := &model.Order{
		ID:              o.ID,
		OrderNumber:     o.Number,
		ProcessedAt:     o.ProcessedAt,
		FinancialStatus: o.FinancialStatus,
		SubtotalPrice:   o.Subtotal.toModel(),
		TotalShipping:   o.TotalShipping.toModel(),
		TotalTax:        o.TotalTax.toModel(),
		TotalPrice:      o.TotalPrice.toModel(),
	}
	if o.ShippingAddress != nil {
		addr := o.ShippingAddress.toModel()
		order.ShippingAddress = &addr
	}
	if o.BillingAddress != nil {
		addr := o.BillingAddress.toModel()
		order.BillingAddress = &addr
	}

	fulfillments := flatten(o.Fulfillments)
	order.Fulfillments = make([]model.Fulfillment, 0, len(fulfillments))
	for _, f := range fulfillments {
		mf := model.Fulfillment{Status: f.Status, UpdatedAt: f.UpdatedAt}
		if len(f.TrackingInformation) > 0 {
			mf.TrackingCompany = f.TrackingInformation[0].Company
			mf.TrackingNumber = f.TrackingInformation[0].Number
		}
		order.Fulfillments = append(order.Fulfillments, mf)
	}
	// 発送状態は最新のフルフィルメントから導出する
	if len(order.Fulfillments) > 0 {
		order.FulfillmentStatus = order.Fulfillments[0].Status
	} else {
		order.FulfillmentStatus = "UNFULFILLED"
	}

	lines := flatten(o.LineItems)
	order.LineItems = make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		ol := model.OrderLine{
			Title:        l.Title,
			VariantTitle: l.VariantTitle,
			Quantity:     l.Quantity,
			Price:        l.Price.toModel(),
		}
		if l.Image != nil {
			ol.ImageURL = l.Image.URL
		}
		order.LineItems = append(order.LineItems, ol)
	}
	return order
}
