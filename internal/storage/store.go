// Package storage はブラウザのlocalStorageに相当する永続キーバリューストアを提供する。
// 言語設定と認証トークンが固定キーで保存され、明示的に削除されるまで残り続ける。
package storage

import "sync"

// Store はキーバリューストアのインターフェースを定義する。
// 値はすべて文字列。存在しないキーのGetは第2戻り値falseを返す。
type Store interface {
	// Get はキーに対応する値を返す。キーが存在しない場合は("", false)。
	Get(key string) (string, bool)
	// Set はキーに値を保存する。既存の値は上書きされる。
	Set(key, value string) error
	// Delete はキーを削除する。キーが存在しない場合も成功扱い。
	Delete(key string) error
}

// MemoryStore はインメモリのStore実装。
// テストおよび永続化不要な実行モードで使用する。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore はMemoryStoreの新しいインスタンスを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get はキーに対応する値を返す。
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set はキーに値を保存する。
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete はキーを削除する。
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
