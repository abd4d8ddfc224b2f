package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hitoshi/shopfront/internal/model"
)

func testSession() *model.Session {
	return &model.Session{AccessToken: "test-access-token"}
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewGateway(server.URL), &calls
}

func TestGateway_GetCustomer_NoSession_SkipsNetwork(t *testing.T) {
	// セッションが無ければネットワークを一切呼ばずにnilを返す
	gateway, calls := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called without a session")
	})

	customer, err := gateway.GetCustomer(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if customer != nil {
		t.Errorf("customer = %+v, want nil", customer)
	}
	if *calls != 0 {
		t.Errorf("upstream calls = %d, want 0", *calls)
	}
}

func TestGateway_GetCustomer_SendsRawTokenInAuthorizationHeader(t *testing.T) {
	var gotAuth string
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customer": map[string]interface{}{
					"id":        "gid://customer/1",
					"firstName": "Taro",
					"lastName":  "Yamada",
					"emailAddress": map[string]string{
						"emailAddress": "taro@example.com",
					},
					"addresses": map[string]interface{}{"edges": []interface{}{}},
				},
			},
		})
	})

	customer, err := gateway.GetCustomer(context.Background(), testSession())
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	// トークンはBearerプレフィックスなしでそのまま送る
	if gotAuth != "test-access-token" {
		t.Errorf("Authorization = %q, want raw token", gotAuth)
	}
	if customer.Email != "taro@example.com" {
		t.Errorf("Email = %q, want taro@example.com", customer.Email)
	}
	if customer.FirstName != "Taro" {
		t.Errorf("FirstName = %q, want Taro", customer.FirstName)
	}
}

func TestGateway_GetCustomer_UpstreamError_ReturnsNilNil(t *testing.T) {
	// 期限切れトークン等の失敗はログアウト状態として扱い、エラーを伝播しない
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	customer, err := gateway.GetCustomer(context.Background(), testSession())
	if err != nil {
		t.Fatalf("GetCustomer() error = %v, want nil", err)
	}
	if customer != nil {
		t.Errorf("customer = %+v, want nil", customer)
	}
}

func TestGateway_GetOrders_DefaultPageSize(t *testing.T) {
	var gotFirst float64
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotFirst, _ = req.Variables["first"].(float64)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customer": map[string]interface{}{
					"orders": map[string]interface{}{"edges": []interface{}{}},
				},
			},
		})
	})

	orders, err := gateway.GetOrders(context.Background(), testSession(), 0)
	if err != nil {
		t.Fatalf("GetOrders() error = %v", err)
	}
	if orders == nil {
		t.Fatal("expected non-nil empty slice for authenticated customer")
	}
	if gotFirst != 20 {
		t.Errorf("first = %v, want 20", gotFirst)
	}
}

func TestGateway_GetOrders_NoSession_ReturnsNil(t *testing.T) {
	gateway, calls := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	orders, err := gateway.GetOrders(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("GetOrders() error = %v", err)
	}
	if orders != nil {
		t.Errorf("orders = %+v, want nil", orders)
	}
	if *calls != 0 {
		t.Errorf("upstream calls = %d, want 0", *calls)
	}
}

func TestGateway_GetOrder_ParsesOrder(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"order": map[string]interface{}{
					"id":              "gid://order/1001",
					"number":          1001,
					"processedAt":     "2026-08-01T10:00:00Z",
					"financialStatus": "PAID",
					"subtotal":        map[string]string{"amount": "1000", "currencyCode": "JPY"},
					"totalShipping":   map[string]string{"amount": "500", "currencyCode": "JPY"},
					"totalTax":        map[string]string{"amount": "100", "currencyCode": "JPY"},
					"totalPrice":      map[string]string{"amount": "1600", "currencyCode": "JPY"},
					"fulfillments": map[string]interface{}{
						"edges": []map[string]interface{}{
							{"node": map[string]interface{}{
								"status": "SUCCESS",
								"trackingInformation": []map[string]string{
									{"company": "Yamato", "number": "1234-5678"},
								},
								"updatedAt": "2026-08-02T09:00:00Z",
							}},
						},
					},
					"lineItems": map[string]interface{}{
						"edges": []map[string]interface{}{
							{"node": map[string]interface{}{
								"title":    "Test Product",
								"quantity": 2,
								"price":    map[string]string{"amount": "500", "currencyCode": "JPY"},
							}},
						},
					},
				},
			},
		})
	})

	order, err := gateway.GetOrder(context.Background(), testSession(), "gid://order/1001")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if order == nil {
		t.Fatal("expected non-nil order")
	}
	if order.OrderNumber != 1001 {
		t.Errorf("OrderNumber = %d, want 1001", order.OrderNumber)
	}
	if order.FulfillmentStatus != "SUCCESS" {
		t.Errorf("FulfillmentStatus = %q, want SUCCESS", order.FulfillmentStatus)
	}
	if len(order.Fulfillments) != 1 || order.Fulfillments[0].TrackingNumber != "1234-5678" {
		t.Errorf("Fulfillments = %+v", order.Fulfillments)
	}
	if len(order.LineItems) != 1 || order.LineItems[0].Quantity != 2 {
		t.Errorf("LineItems = %+v", order.LineItems)
	}
}

func TestGateway_GetOrder_NullOrder_ReturnsNilNil(t *testing.T) {
	// 存在しない・他人の注文IDはリモートがnullを返す
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"order": nil},
		})
	})

	order, err := gateway.GetOrder(context.Background(), testSession(), "gid://order/unknown")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if order != nil {
		t.Errorf("order = %+v, want nil", order)
	}
}

func TestGateway_UpdateProfile_NoSession_ReturnsErrNotAuthenticated(t *testing.T) {
	gateway, calls := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	err := gateway.UpdateProfile(context.Background(), nil, ProfileInput{FirstName: "Taro"})
	if !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
	if *calls != 0 {
		t.Errorf("upstream calls = %d, want 0", *calls)
	}
}

func TestGateway_UpdateProfile_UserErrors_ReturnsValidationError(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customerUpdate": map[string]interface{}{
					"customer": nil,
					"userErrors": []map[string]interface{}{
						{"field": []string{"input", "firstName"}, "message": "is too long"},
					},
				},
			},
		})
	})

	err := gateway.UpdateProfile(context.Background(), testSession(), ProfileInput{FirstName: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *model.ValidationError", err)
	}
	// field pathとmessageを結合したメッセージになる
	if got := ve.Error(); got != "input.firstName: is too long" {
		t.Errorf("message = %q, want %q", got, "input.firstName: is too long")
	}
}

func TestGateway_CreateAddress_ReturnsNewAddressID(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customerAddressCreate": map[string]interface{}{
					"customerAddress": map[string]string{"id": "gid://address/new"},
					"userErrors":      []interface{}{},
				},
			},
		})
	})

	id, err := gateway.CreateAddress(context.Background(), testSession(), AddressInput{
		Address1: "1-2-3 Chiyoda",
		City:     "Tokyo",
		Zip:      "100-0001",
		Country:  "JP",
	})
	if err != nil {
		t.Fatalf("CreateAddress() error = %v", err)
	}
	if id != "gid://address/new" {
		t.Errorf("id = %q, want gid://address/new", id)
	}
}

func TestGateway_DeleteAddress_UserErrors_ReturnsValidationError(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customerAddressDelete": map[string]interface{}{
					"deletedAddressId": nil,
					"userErrors": []map[string]interface{}{
						{"field": []string{}, "message": "cannot delete default address"},
					},
				},
			},
		})
	})

	err := gateway.DeleteAddress(context.Background(), testSession(), "gid://address/1")
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *model.ValidationError", err)
	}
}

func TestGateway_SetDefaultAddress_Success(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"customerAddressUpdate": map[string]interface{}{
					"customerAddress": map[string]string{"id": "gid://address/1"},
					"userErrors":      []interface{}{},
				},
			},
		})
	})

	if err := gateway.SetDefaultAddress(context.Background(), testSession(), "gid://address/1"); err != nil {
		t.Errorf("SetDefaultAddress() error = %v", err)
	}
}
