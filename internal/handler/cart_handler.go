package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/shopfront/internal/middleware"
	"github.com/hitoshi/shopfront/internal/model"
)

// cartCookieName はカートIDを保持するCookieの名前。
// カートの正本はリモート側にあり、ブラウザはIDだけを持つ。
// セッションスコープのCookieで、有効期限はブラウザに任せる。
const cartCookieName = "cartId"

// CartServiceInterface はカート操作サービスが実装すべきインターフェース。
type CartServiceInterface interface {
	CreateCart(ctx context.Context, sess *model.Session) (*model.Cart, *model.APIError)
	GetCart(ctx context.Context, cartID string) (*model.Cart, *model.APIError)
	AddItem(ctx context.Context, cartID, merchandiseID string) (*model.Cart, *model.APIError)
	RemoveItem(ctx context.Context, cartID, merchandiseID string) (*model.Cart, *model.APIError)
	UpdateItemQuantity(ctx context.Context, cartID, merchandiseID string, quantity int) (*model.Cart, *model.APIError)
	CheckoutURL(ctx context.Context, cartID string, sess *model.Session) (string, *model.APIError)
}

// CartHandler はカート操作のHTTPハンドラー。
// カートID Cookieの読み書きはこの層だけが行う。
type CartHandler struct {
	carts        CartServiceInterface
	cookieSecure bool
	cookieDomain string
	logger       *slog.Logger
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(carts CartServiceInterface, cookieSecure bool, cookieDomain string, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		carts:        carts,
		cookieSecure: cookieSecure,
		cookieDomain: cookieDomain,
		logger:       logger,
	}
}

// cartResponse はカートAPIの共通レスポンス。カート未存在時はcartがnullになる。
type cartResponse struct {
	Cart *model.Cart `json:"cart"`
}

type addLineRequest struct {
	MerchandiseID string `json:"merchandiseId"`
}

type updateLineRequest struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// GetCart は現在のカートを返す。Cookieが無い、またはカートが存在しない
// 場合もエラーにせずcart: nullを返す。
// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, apiErr := h.carts.GetCart(r.Context(), h.cartID(r))
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

// CreateCart は新しいカートを作成してIDをCookieに保存する。
// POST /api/cart
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	cart, apiErr := h.carts.CreateCart(r.Context(), sess)
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}

	h.setCartCookie(w, cart.ID)
	writeJSON(w, http.StatusCreated, cartResponse{Cart: cart})
}

// AddLine はカートに商品を追加する。Cookieが無ければカートを先に作成する。
// POST /api/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("request body is not valid JSON"))
		return
	}
	if req.MerchandiseID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("merchandiseId is required"))
		return
	}

	cartID := h.cartID(r)
	if cartID == "" {
		sess := middleware.SessionFromContext(r.Context())
		created, apiErr := h.carts.CreateCart(r.Context(), sess)
		if apiErr != nil {
			writeCartError(w, apiErr)
			return
		}
		cartID = created.ID
		h.setCartCookie(w, cartID)
	}

	cart, apiErr := h.carts.AddItem(r.Context(), cartID, req.MerchandiseID)
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

// UpdateLine は商品の数量を絶対値で設定する。0以下で削除になる。
// PUT /api/cart/lines
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("request body is not valid JSON"))
		return
	}
	if req.MerchandiseID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("merchandiseId is required"))
		return
	}

	cart, apiErr := h.carts.UpdateItemQuantity(r.Context(), h.cartID(r), req.MerchandiseID, req.Quantity)
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

// RemoveLine は指定した商品のラインを削除する。
// merchandiseIDはgid形式でスラッシュを含むため、パスではなくクエリで受け取る。
// DELETE /api/cart/lines?merchandiseId=...
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	merchandiseID := r.URL.Query().Get("merchandiseId")
	if merchandiseID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("merchandiseId is required"))
		return
	}

	cart, apiErr := h.carts.RemoveItem(r.Context(), h.cartID(r), merchandiseID)
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: cart})
}

// Checkout はチェックアウトURLへの303リダイレクトを返す。
// ログイン中であれば購入者情報の関連付けをサービス層が試みる。
// POST /api/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	checkoutURL, apiErr := h.carts.CheckoutURL(r.Context(), h.cartID(r), sess)
	if apiErr != nil {
		writeCartError(w, apiErr)
		return
	}
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// cartID はCookieからカートIDを読み取る。無ければ空文字。
func (h *CartHandler) cartID(r *http.Request) string {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *CartHandler) setCartCookie(w http.ResponseWriter, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
