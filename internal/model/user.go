package model

// User はバックエンドAPIの /api/users/me が返すユーザープロフィールを表す。
// 管理者リンクや編集ボタンの表示判定にのみ使用し、ローカルには保存しない。
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}
