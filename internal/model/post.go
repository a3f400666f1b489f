// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
	"time"
)

// Post はバックエンドAPIから取得したブログ記事を表す。
// フィールド名はバックエンドのJSONレスポンスに対応する。
// Contentはサーバー側でMarkdownからレンダリング済みのHTML。
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	AuthorID  int       `json:"author_id"`
}

// Timestamp はバックエンドが返すタイムスタンプを表す。
// バックエンドはタイムゾーン付きのRFC3339とタイムゾーンなしの
// ISO-8601（naive datetime）の両方を返しうるため、どちらも受理する。
type Timestamp struct {
	time.Time
}

// timestampLayouts はUnmarshalJSONで試行するレイアウト。先頭から順に試す。
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON はJSON文字列からTimestampをパースする。
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("タイムスタンプのパースに失敗しました: %q", s)
}

// MarshalJSON はTimestampをRFC3339形式のJSON文字列に変換する。
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ts.Format(time.RFC3339Nano) + `"`), nil
}
