package model

import (
	"errors"
	"fmt"
)

// センチネルエラー。APIクライアントがHTTPステータスから変換し、
// コントローラーがerrors.Isで分岐する。
var (
	// ErrUnauthorized は認証失敗（HTTP 401）を表す。
	// 受信側は保存済みクレデンシャルを破棄してナビゲーションをリセットする。
	ErrUnauthorized = errors.New("認証に失敗しました")
	// ErrPostNotFound は記事未検出（HTTP 404）を表す。
	ErrPostNotFound = errors.New("記事が見つかりません")
)

// APIError は統一エラーフォーマットを表す。
// ログに記録する原因カテゴリと対処方法を含む。
// センチネルエラーをラップするため、errors.Isでの分岐はそのまま機能する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, fetch, system
	Action   string // 対処方法
	cause    error
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap はラップしたエラーを返す。
func (e *APIError) Unwrap() error {
	return e.cause
}

// 定義済みエラーコード
const (
	ErrCodePostNotFound = "POST_NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeParseFailed  = "PARSE_FAILED"
)

// NewPostNotFoundError は記事未検出エラーを生成する。
// ErrPostNotFoundをラップする。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %s", postID),
		Category: "fetch",
		Action:   "記事IDを確認してください。",
		cause:    ErrPostNotFound,
	}
}

// NewUnauthorizedError は認証失敗エラーを生成する。
// ErrUnauthorizedをラップする。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証に失敗しました。トークンが無効か期限切れです。",
		Category: "auth",
		Action:   "ログインし直してください。",
		cause:    ErrUnauthorized,
	}
}

// NewFetchFailedError はフェッチ失敗エラーを生成する。
func NewFetchFailedError(reason string, cause error) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("バックエンドAPIの呼び出しに失敗しました: %s", reason),
		Category: "fetch",
		Action:   "ネットワーク接続を確認し、しばらく待ってから再度お試しください。",
		cause:    cause,
	}
}

// NewParseFailedError はパース失敗エラーを生成する。
func NewParseFailedError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeParseFailed,
		Message:  "APIレスポンスの解析に失敗しました。",
		Category: "fetch",
		Action:   "バックエンドAPIのバージョンを確認してください。",
		cause:    cause,
	}
}
