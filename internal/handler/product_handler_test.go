package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/shopfront/internal/model"
)

type stubCatalogService struct {
	product     *model.Product
	products    []*model.Product
	collections []*model.Collection
	err         error

	lastQuery   string
	lastSort    string
	lastReverse bool
	lastHandle  string
}

func (s *stubCatalogService) GetProduct(_ context.Context, handle string) (*model.Product, error) {
	s.lastHandle = handle
	return s.product, s.err
}

func (s *stubCatalogService) GetProducts(_ context.Context, query, sortKey string, reverse bool) ([]*model.Product, error) {
	s.lastQuery = query
	s.lastSort = sortKey
	s.lastReverse = reverse
	return s.products, s.err
}

func (s *stubCatalogService) GetCollectionProducts(_ context.Context, handle, sortKey string, reverse bool) ([]*model.Product, error) {
	s.lastHandle = handle
	s.lastSort = sortKey
	s.lastReverse = reverse
	return s.products, s.err
}

func (s *stubCatalogService) GetCollections(_ context.Context) ([]*model.Collection, error) {
	return s.collections, s.err
}

func TestProductHandler_ListProducts_PassesSearchParams(t *testing.T) {
	svc := &stubCatalogService{products: []*model.Product{{Handle: "tea-cup"}}}
	h := NewProductHandler(svc, nil)

	w := httptest.NewRecorder()
	h.ListProducts(w, httptest.NewRequest(http.MethodGet, "/api/products?q=cup&sort=PRICE&reverse=true", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.lastQuery != "cup" || svc.lastSort != "PRICE" || !svc.lastReverse {
		t.Errorf("params = (%q, %q, %v)", svc.lastQuery, svc.lastSort, svc.lastReverse)
	}
}

func TestProductHandler_ListProducts_EmptyIsNotNull(t *testing.T) {
	h := NewProductHandler(&stubCatalogService{}, nil)

	w := httptest.NewRecorder()
	h.ListProducts(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if !strings.Contains(w.Body.String(), `"products":[]`) {
		t.Errorf("products should be an empty array, got %s", w.Body.String())
	}
}

func TestProductHandler_ListProducts_UpstreamErrorReturns500(t *testing.T) {
	h := NewProductHandler(&stubCatalogService{err: errors.New("upstream down")}, nil)

	w := httptest.NewRecorder()
	h.ListProducts(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestProductHandler_GetProduct_NotFoundReturns404(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewProductHandler(svc, nil)

	r := requestWithURLParam(httptest.NewRequest(http.MethodGet, "/api/products/no-such", nil), "handle", "no-such")
	w := httptest.NewRecorder()
	h.GetProduct(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "PRODUCT_NOT_FOUND" {
		t.Errorf("code = %q, want PRODUCT_NOT_FOUND", resp.Code)
	}
}

func TestProductHandler_GetProduct_ReturnsProduct(t *testing.T) {
	svc := &stubCatalogService{product: &model.Product{Handle: "tea-cup", Title: "湯呑み"}}
	h := NewProductHandler(svc, nil)

	r := requestWithURLParam(httptest.NewRequest(http.MethodGet, "/api/products/tea-cup", nil), "handle", "tea-cup")
	w := httptest.NewRecorder()
	h.GetProduct(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp productResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Product == nil || resp.Product.Title != "湯呑み" {
		t.Errorf("product = %+v", resp.Product)
	}
	if svc.lastHandle != "tea-cup" {
		t.Errorf("handle = %q, want tea-cup", svc.lastHandle)
	}
}

func TestProductHandler_ListCollections(t *testing.T) {
	svc := &stubCatalogService{collections: []*model.Collection{
		{Handle: "new-arrivals", Title: "新着", Path: "/search/new-arrivals"},
	}}
	h := NewProductHandler(svc, nil)

	w := httptest.NewRecorder()
	h.ListCollections(w, httptest.NewRequest(http.MethodGet, "/api/collections", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp collectionsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Collections) != 1 || resp.Collections[0].Path != "/search/new-arrivals" {
		t.Errorf("collections = %+v", resp.Collections)
	}
}

func TestProductHandler_ListCollectionProducts_UnknownCollectionIsEmpty(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewProductHandler(svc, nil)

	r := requestWithURLParam(httptest.NewRequest(http.MethodGet, "/api/collections/no-such/products", nil), "handle", "no-such")
	w := httptest.NewRecorder()
	h.ListCollectionProducts(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"products":[]`) {
		t.Errorf("products should be an empty array, got %s", w.Body.String())
	}
}
