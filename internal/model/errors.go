// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// 読み取り系で「空の結果」として扱うセンチネルエラー。
var (
	// ErrNotAuthenticated は有効なセッションが存在しないことを表す。
	// 読み取り系ではnilを返すためこのエラーは使わず、変更系のみが返す。
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound は対象リソースが存在しないことを表す。
	ErrNotFound = errors.New("not found")
)

// AuthExchangeError はトークンエンドポイントがaccess_tokenを返さなかったことを表す。
// 交換失敗時にセッションは変更されないため、リトライしても安全。
type AuthExchangeError struct {
	Reason string
}

// Error はerrorインターフェースを実装する。
func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: %s", e.Reason)
}

// ValidationError はリモートAPIがユーザーレベルのフィールドエラーを返したことを表す。
// トランスポートが200でもuserErrorsが非空なら意味的な失敗として扱う。
type ValidationError struct {
	Messages []string
}

// Error はfield+messageのペアを結合したメッセージを返す。
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// UserError はGraphQLレスポンスに埋め込まれるユーザーレベルのエラー。
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// NewValidationError はuserErrors配列からValidationErrorを生成する。
// 空の配列に対してはnilを返す。
func NewValidationError(userErrors []UserError) *ValidationError {
	if len(userErrors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
		} else {
			msgs = append(msgs, ue.Message)
		}
	}
	return &ValidationError{Messages: msgs}
}

// TransportError はネットワーク障害またはHTTPレベルの失敗を表す。
type TransportError struct {
	Status int
	Err    error
}

// Error はerrorインターフェースを実装する。
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream request failed (status %d)", e.Status)
}

// Unwrap はラップされたエラーを返す。
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, cart, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeCartNotFound     = "CART_NOT_FOUND"
	ErrCodeCartActionFailed = "CART_ACTION_FAILED"
	ErrCodeItemNotInCart    = "ITEM_NOT_IN_CART"
	ErrCodeCheckoutFailed   = "CHECKOUT_FAILED"
	ErrCodeUserErrors       = "USER_ERRORS"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeAuthFailed       = "AUTH_FAILED"
)

// NewAuthFailedError はトークン交換失敗エラーを生成する。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "再度ログインをお試しください。",
	}
}

// NewProductNotFoundError は商品未検出エラーを生成する。
func NewProductNotFoundError(handle string) *APIError {
	return &APIError{
		Code:     ErrCodeProductNotFound,
		Message:  fmt.Sprintf("指定された商品が見つかりません: %s", handle),
		Category: "validation",
		Action:   "商品の指定を確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidRequestError は無効なリクエストエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("無効なリクエストです: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された注文が見つかりません: %s", orderID),
		Category: "validation",
		Action:   "注文IDを確認してください。",
	}
}

// NewCartNotFoundError はカート未検出エラーを生成する。
func NewCartNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeCartNotFound,
		Message:  "カートが見つかりません。",
		Category: "cart",
		Action:   "ページを再読み込みしてください。",
	}
}

// NewCartActionError はカート操作失敗エラーを生成する。
func NewCartActionError(action string) *APIError {
	return &APIError{
		Code:     ErrCodeCartActionFailed,
		Message:  fmt.Sprintf("カートの%sに失敗しました。", action),
		Category: "cart",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewItemNotInCartError はカート内に対象商品が存在しないエラーを生成する。
func NewItemNotInCartError() *APIError {
	return &APIError{
		Code:     ErrCodeItemNotInCart,
		Message:  "指定された商品はカートに入っていません。",
		Category: "cart",
		Action:   "カートの内容を確認してください。",
	}
}

// NewCheckoutFailedError はチェックアウトURL取得失敗エラーを生成する。
func NewCheckoutFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeCheckoutFailed,
		Message:  "チェックアウトへの遷移に失敗しました。",
		Category: "cart",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUserErrorsError はリモートのユーザーレベルエラーをAPIErrorに変換する。
func NewUserErrorsError(ve *ValidationError) *APIError {
	return &APIError{
		Code:     ErrCodeUserErrors,
		Message:  ve.Error(),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}
