// Package session は顧客セッションのCookieストアを提供する。
// セッションの正体はOAuthで取得したアクセストークンそのものであり、
// サーバー側には一切永続化しない。Cookieの有効期限がセッションの
// 有効期限を兼ねる（リフレッシュ処理は存在しない）。
package session

import (
	"net/http"
	"time"

	"github.com/hitoshi/shopfront/internal/model"
)

const (
	// accessTokenCookie は顧客アクセストークンを保持するCookieの名前。
	accessTokenCookie = "customer_access_token"
	// idTokenCookie はリモートログアウトのid_token_hint専用のCookieの名前。
	idTokenCookie = "customer_id_token"

	// defaultTTLSeconds はトークン応答にexpires_inが無い場合のTTL。
	defaultTTLSeconds = 3600
)

// Store はCookieベースのセッションストア。
// リクエストごとに明示的に受け渡し、プロセス全体のシングルトンにはしない。
type Store struct {
	secure bool
	domain string
}

// New はStoreを生成する。
func New(secure bool, domain string) *Store {
	return &Store{secure: secure, domain: domain}
}

// Set はトークンをHTTP Only Cookieに保存する。
// ttlSecondsが0以下の場合はデフォルト（3600秒）を使用する。
// idTokenが空の場合、id_token Cookieは設定しない。
func (s *Store) Set(w http.ResponseWriter, accessToken, idToken string, ttlSeconds int) {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultTTLSeconds
	}

	http.SetCookie(w, s.cookie(accessTokenCookie, accessToken, ttlSeconds))
	if idToken != "" {
		http.SetCookie(w, s.cookie(idTokenCookie, idToken, ttlSeconds))
	}
}

// Get はリクエストのCookieからセッションを読み取る。
// アクセストークンのCookieが存在しない・空の場合はnilを返し、エラーにはしない。
// トークンの期限切れ検証はここでは行わない。期限切れトークンでの
// ゲートウェイ呼び出しは未認証として扱われる。
func (s *Store) Get(r *http.Request) *model.Session {
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess := &model.Session{AccessToken: cookie.Value}
	if idCookie, err := r.Cookie(idTokenCookie); err == nil {
		sess.IDToken = idCookie.Value
	}
	return sess
}

// Clear はセッションCookieを両方削除する。
// ローカルのクリアのみではリモートセッションが残るため、呼び出し元は
// リモートのログアウトURLへのリダイレクトと組み合わせること。
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(accessTokenCookie, "", -1))
	http.SetCookie(w, s.cookie(idTokenCookie, "", -1))
}

// cookie は固定属性（HTTP Only、SameSite=Lax）のCookieを生成する。
func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	}
	return c
}
