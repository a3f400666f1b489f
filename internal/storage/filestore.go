package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore はJSONファイルに永続化するStore実装。
// ファイル全体をメモリに保持し、変更のたびに一時ファイル経由で
// アトミックに書き戻す。プロセス再起動をまたいで値が生存する。
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore は指定パスのファイルを読み込んでFileStoreを生成する。
// ファイルが存在しない場合は空のストアとして開始する（初回起動）。
// ファイルが存在するのに読めない・JSONとして解析できない場合はエラーを返す。
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("ステートファイルの読み込みに失敗しました: %w", err)
	}

	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("ステートファイルの解析に失敗しました: %w", err)
	}

	return s, nil
}

// Get はキーに対応する値を返す。
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set はキーに値を保存し、ファイルに書き戻す。
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete はキーを削除し、ファイルに書き戻す。
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked は現在の内容をファイルへアトミックに書き出す。
// 呼び出し元でmuを保持していること。
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("ステートのシリアライズに失敗しました: %w", err)
	}

	// 同一ディレクトリの一時ファイルに書いてからrenameする
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".blogfront-state-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ステートファイルの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ステートファイルのクローズに失敗しました: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ステートファイルの置き換えに失敗しました: %w", err)
	}

	return nil
}

// compile-time interface check
var _ Store = (*FileStore)(nil)
