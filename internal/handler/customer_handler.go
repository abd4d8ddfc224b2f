package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/shopfront/internal/account"
	"github.com/hitoshi/shopfront/internal/middleware"
	"github.com/hitoshi/shopfront/internal/model"
)

// AccountServiceInterface は顧客アカウントゲートウェイが実装すべきインターフェース。
type AccountServiceInterface interface {
	GetCustomer(ctx context.Context, sess *model.Session) (*model.Customer, error)
	GetOrders(ctx context.Context, sess *model.Session, first int) ([]*model.Order, error)
	GetOrder(ctx context.Context, sess *model.Session, orderID string) (*model.Order, error)
	UpdateProfile(ctx context.Context, sess *model.Session, input account.ProfileInput) error
	CreateAddress(ctx context.Context, sess *model.Session, input account.AddressInput) (string, error)
	DeleteAddress(ctx context.Context, sess *model.Session, addressID string) error
	SetDefaultAddress(ctx context.Context, sess *model.Session, addressID string) error
}

// CustomerHandler は顧客プロファイルと注文履歴のHTTPハンドラー。
// ゲートウェイの読み取り系は未ログインをnilで表現するため、
// この層がnilを401に変換する。
type CustomerHandler struct {
	account AccountServiceInterface
	logger  *slog.Logger
}

// NewCustomerHandler はCustomerHandlerを生成する。
func NewCustomerHandler(accountService AccountServiceInterface, logger *slog.Logger) *CustomerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerHandler{account: accountService, logger: logger}
}

type customerResponse struct {
	Customer *model.Customer `json:"customer"`
}

type ordersResponse struct {
	Orders []*model.Order `json:"orders"`
}

type orderResponse struct {
	Order *model.Order `json:"order"`
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type createAddressRequest struct {
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

// GetProfile はログイン中の顧客プロファイルを返す。
// GET /api/customer/profile
func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	customer, err := h.account.GetCustomer(r.Context(), sess)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if customer == nil {
		// トークン期限切れも未ログインとして扱う
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{Customer: customer})
}

// UpdateProfile は氏名を更新する。
// PUT /api/customer/profile
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("request body is not valid JSON"))
		return
	}

	err := h.account.UpdateProfile(r.Context(), sess, account.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders は注文履歴を新しい順で返す。firstクエリで件数を指定できる。
// GET /api/customer/orders
func (h *CustomerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	first := 0
	if v := r.URL.Query().Get("first"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("first must be a positive integer"))
			return
		}
		first = n
	}

	orders, err := h.account.GetOrders(r.Context(), sess, first)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

// GetOrder は単一の注文を返す。他人の注文やID不正はリモート側がnullを
// 返すため、ここでは404に変換するだけでよい。
// GET /api/customer/orders/{orderID}
func (h *CustomerHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	orderID := chi.URLParam(r, "orderID")
	order, err := h.account.GetOrder(r.Context(), sess, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if order == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewOrderNotFoundError(orderID))
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

// CreateAddress は住所を新規作成し、作成されたIDを返す。
// POST /api/customer/addresses
func (h *CustomerHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req createAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("request body is not valid JSON"))
		return
	}

	id, err := h.account.CreateAddress(r.Context(), sess, account.AddressInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Company:     req.Company,
		Address1:    req.Address1,
		Address2:    req.Address2,
		City:        req.City,
		Province:    req.Province,
		Zip:         req.Zip,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteAddress は住所を削除する。
// DELETE /api/customer/addresses/{addressID}
func (h *CustomerHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	addressID := chi.URLParam(r, "addressID")
	if err := h.account.DeleteAddress(r.Context(), sess, addressID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultAddress は既定の住所を変更する。
// PUT /api/customer/addresses/{addressID}/default
func (h *CustomerHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	addressID := chi.URLParam(r, "addressID")
	if err := h.account.SetDefaultAddress(r.Context(), sess, addressID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
