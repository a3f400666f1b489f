// Package session は保存済みの認証クレデンシャル（Bearerトークン）を管理する。
// トークンは認証バックエンドが発行・保存するもので、本システムからは
// 読み取りと削除（ログアウト・401受信時）のみを行う。
package session

import (
	"github.com/DuoBaoWa/FastAPI-Blog/internal/storage"
)

// tokenKey はトークンを保持するストアのキー。
// ブラウザ版のlocalStorageキーと同じ名前を使用する。
const tokenKey = "token"

// Manager は永続ストア上のセッションクレデンシャルへのアクセスを提供する。
type Manager struct {
	store storage.Store
}

// NewManager はManagerの新しいインスタンスを生成する。
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Token は保存済みのBearerトークンを返す。未保存の場合は("", false)。
func (m *Manager) Token() (string, bool) {
	v, ok := m.store.Get(tokenKey)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clear は保存済みトークンを削除する。
// ログアウト時およびバックエンドから401を受信した時に呼ばれる。
// トークンが保存されていない場合も成功扱い。
func (m *Manager) Clear() error {
	return m.store.Delete(tokenKey)
}
