package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/shopfront/internal/model"
)

// CatalogServiceInterface は商品カタログサービスが実装すべきインターフェース。
type CatalogServiceInterface interface {
	GetProduct(ctx context.Context, handle string) (*model.Product, error)
	GetProducts(ctx context.Context, query, sortKey string, reverse bool) ([]*model.Product, error)
	GetCollectionProducts(ctx context.Context, handle, sortKey string, reverse bool) ([]*model.Product, error)
	GetCollections(ctx context.Context) ([]*model.Collection, error)
}

// ProductHandler は商品カタログのHTTPハンドラー。認証不要の公開API。
type ProductHandler struct {
	catalog CatalogServiceInterface
	logger  *slog.Logger
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(catalog CatalogServiceInterface, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{catalog: catalog, logger: logger}
}

type productsResponse struct {
	Products []*model.Product `json:"products"`
}

type productResponse struct {
	Product *model.Product `json:"product"`
}

type collectionsResponse struct {
	Collections []*model.Collection `json:"collections"`
}

// ListProducts は商品を検索して返す。qで検索、sortでソートキー、
// reverse=trueで降順を指定できる。
// GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.GetProducts(r.Context(), q.Get("q"), q.Get("sort"), q.Get("reverse") == "true")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

// GetProduct はハンドル指定で単一商品を返す。
// 非表示タグ付きの商品も直接アクセスでは取得できる。
// GET /api/products/{handle}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	product, err := h.catalog.GetProduct(r.Context(), handle)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if product == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewProductNotFoundError(handle))
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: product})
}

// ListCollections はコレクション一覧を返す。
// GET /api/collections
func (h *ProductHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalog.GetCollections(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if collections == nil {
		collections = []*model.Collection{}
	}
	writeJSON(w, http.StatusOK, collectionsResponse{Collections: collections})
}

// ListCollectionProducts はコレクション内の商品を返す。
// 存在しないコレクションは空配列になる。
// GET /api/collections/{handle}/products
func (h *ProductHandler) ListCollectionProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.GetCollectionProducts(r.Context(), chi.URLParam(r, "handle"), q.Get("sort"), q.Get("reverse") == "true")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*model.Product{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}
