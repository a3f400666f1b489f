// Package view はレンダリング先となるドキュメントの抽象を提供する。
// ブラウザDOMへの固定IDルックアップを small interface に置き換えることで、
// コントローラーのレンダリングロジックを実ドキュメントなしでテストできるようにする。
package view

// ブログページが参照する固定要素ID・クラス・属性名。
const (
	IDLoginLink      = "login-link"
	IDAdminLink      = "admin-link"
	IDLogoutLink     = "logout-link"
	IDPostsContainer = "posts-container"
	IDPostContainer  = "post-container"
	IDPostTitle      = "post-title"
	IDPostDate       = "post-date"
	IDPostContent    = "post-content"
	IDEditPostBtn    = "edit-post-btn"

	ClassBackButton = "btn-back"

	// DataPostID は記事詳細のタイトル要素に保持される記事ID属性。
	// 言語切り替え時の再レンダリングで参照される。
	DataPostID = "post-id"
)

// Element はドキュメント内の1要素を表す抽象インターフェース。
type Element interface {
	// SetText は要素の表示テキストを設定する。保持していたマークアップは破棄される。
	SetText(text string)
	// SetHTML は要素の内容をマークアップとして設定する。
	SetHTML(markup string)
	// SetValue は入力要素の値を設定する（submitボタンのラベル等）。
	SetValue(value string)
	// SetVisible は要素の表示・非表示を切り替える。
	SetVisible(visible bool)
	// SetHref はリンク要素の遷移先を設定する。
	SetHref(href string)
	// SetData は要素のカスタムデータ属性を設定する。
	SetData(name, value string)
	// Data は要素のカスタムデータ属性を返す。未設定の場合は("", false)。
	Data(name string) (string, bool)
	// TranslationKey は要素に付与された翻訳キーを返す。未付与なら空文字列。
	TranslationKey() string
	// SubmitInput は要素がsubmit型の入力要素かどうかを返す。
	// 翻訳適用時にテキストではなく値を設定するパスの判定に使う。
	SubmitInput() bool
	// OnActivate は要素のアクティベーション（クリック相当）ハンドラを登録する。
	OnActivate(handler func())
}

// Document はレンダリング対象ドキュメント全体を表す抽象インターフェース。
type Document interface {
	// ElementByID は固定IDで要素を検索する。存在しない場合は(nil, false)。
	ElementByID(id string) (Element, bool)
	// Translatable は翻訳キーが付与された全要素を返す。
	Translatable() []Element
	// ElementsByClass は指定クラスを持つ全要素を返す。
	ElementsByClass(class string) []Element
}
