package model

import "time"

// Session は顧客のログインセッションを表す。
// サーバー側のCookieストアのみが所有する。accessTokenが無い場合は
// ログアウト状態として扱い、エラーにはしない。
type Session struct {
	AccessToken string
	IDToken     string
	ExpiresAt   time.Time
}

// Customer はリモート状態の読み取り専用プロジェクション。
// 単一リクエストを超えてキャッシュしない。
type Customer struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	DefaultAddressID string    `json:"defaultAddressId,omitempty"`
	Addresses        []Address `json:"addresses,omitempty"`
}

// Address は顧客の住所を表す。
// 作成・削除・デフォルト設定はゲートウェイのミューテーション経由でのみ行い、
// ローカルで楽観的に変更することはない。
type Address struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}
