// Package cache はタグ付きのインメモリキャッシュを提供する。
// キーごとに任意個のタグを関連付け、タグ単位で一括無効化できる。
// カート変更の成功後に"cart"タグを無効化する用途が主。
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	tags      []string
	expiresAt time.Time
}

// Store はタグ付きキャッシュ。並行アクセスに対して安全。
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
}

// New はStoreを生成する。ttlが0の場合、エントリは無効化されるまで生存する。
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Set は値をタグ付きで保存する。
func (s *Store) Set(key string, value interface{}, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{value: value, tags: tags}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[key] = e
}

// Get は値を取得する。存在しない・期限切れの場合はfalseを返す。
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// 取得と削除の間に別ゴルーチンが同じキーを上書きしている可能性があるため再確認
		if current, ok := s.entries[key]; ok && current == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Invalidate は指定タグを持つすべてのエントリを削除し、削除数を返す。
func (s *Store) Invalidate(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		for _, t := range e.tags {
			if t == tag {
				delete(s.entries, key)
				removed++
				break
			}
		}
	}
	return removed
}

// Delete は単一のキーを削除する。
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len は現在のエントリ数を返す（期限切れ含む）。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
