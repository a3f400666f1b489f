package view

import (
	"fmt"
	"io"
	"sync"
)

// Node はElementのインメモリ実装。
// ターミナルフロントエンドとテストの両方で使用する。
type Node struct {
	mu          sync.Mutex
	id          string
	classes     []string
	i18nKey     string
	submitInput bool

	visible bool
	text    string
	markup  string
	value   string
	href    string
	data    map[string]string
	handler func()
}

// NewNode は指定IDのNodeを生成する。初期状態は表示。
func NewNode(id string) *Node {
	return &Node{
		id:      id,
		visible: true,
		data:    make(map[string]string),
	}
}

// WithClass はクラスを追加したNodeを返す。ページ構築時に使用する。
func (n *Node) WithClass(class string) *Node {
	n.classes = append(n.classes, class)
	return n
}

// WithTranslationKey は翻訳キーを付与したNodeを返す。
func (n *Node) WithTranslationKey(key string) *Node {
	n.i18nKey = key
	return n
}

// AsSubmitInput はsubmit型入力要素としてマークしたNodeを返す。
func (n *Node) AsSubmitInput() *Node {
	n.submitInput = true
	return n
}

// Hidden は初期状態を非表示にしたNodeを返す。
func (n *Node) Hidden() *Node {
	n.visible = false
	return n
}

// ID は要素IDを返す。
func (n *Node) ID() string { return n.id }

// SetText は表示テキストを設定する。
func (n *Node) SetText(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	n.markup = ""
}

// SetHTML は内容をマークアップとして設定する。
func (n *Node) SetHTML(markup string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.markup = markup
	n.text = ""
}

// SetValue は入力要素の値を設定する。
func (n *Node) SetValue(value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.value = value
}

// SetVisible は表示・非表示を切り替える。
func (n *Node) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

// SetHref はリンク先を設定する。
func (n *Node) SetHref(href string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.href = href
}

// SetData はカスタムデータ属性を設定する。
func (n *Node) SetData(name, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data[name] = value
}

// Data はカスタムデータ属性を返す。
func (n *Node) Data(name string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.data[name]
	return v, ok
}

// TranslationKey は翻訳キーを返す。
func (n *Node) TranslationKey() string { return n.i18nKey }

// SubmitInput はsubmit型入力要素かどうかを返す。
func (n *Node) SubmitInput() bool { return n.submitInput }

// OnActivate はアクティベーションハンドラを登録する。
func (n *Node) OnActivate(handler func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// Activate は登録済みハンドラを同期実行する。
// ブラウザのクリックイベントに相当する。ハンドラ未登録なら何もしない。
func (n *Node) Activate() {
	n.mu.Lock()
	h := n.handler
	n.mu.Unlock()
	if h != nil {
		h()
	}
}

// Text は現在の表示テキストを返す。
func (n *Node) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// HTML は現在のマークアップを返す。
func (n *Node) HTML() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.markup
}

// Value は現在の入力値を返す。
func (n *Node) Value() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

// Href は現在のリンク先を返す。
func (n *Node) Href() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.href
}

// Visible は現在の表示状態を返す。
func (n *Node) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// hasClass は指定クラスを持つかどうかを返す。
func (n *Node) hasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// displayString はターミナル表示用の文字列を返す。
// マークアップ保持時はプレーンテキストに平坦化する。
func (n *Node) displayString() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.markup != "" {
		return Flatten(n.markup)
	}
	if n.text != "" {
		return n.text
	}
	return n.value
}

// Page はDocumentのインメモリ実装。ノードの平坦なリストを保持する。
type Page struct {
	nodes []*Node
	byID  map[string]*Node
}

// NewPage は指定ノードからPageを生成する。
// 同一IDのノードが複数ある場合は先勝ち。
func NewPage(nodes ...*Node) *Page {
	p := &Page{
		nodes: nodes,
		byID:  make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		if n.id == "" {
			continue
		}
		if _, exists := p.byID[n.id]; !exists {
			p.byID[n.id] = n
		}
	}
	return p
}

// ElementByID は固定IDで要素を検索する。
func (p *Page) ElementByID(id string) (Element, bool) {
	n, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Translatable は翻訳キーが付与された全要素を返す。
func (p *Page) Translatable() []Element {
	var out []Element
	for _, n := range p.nodes {
		if n.i18nKey != "" {
			out = append(out, n)
		}
	}
	return out
}

// ElementsByClass は指定クラスを持つ全要素を返す。
func (p *Page) ElementsByClass(class string) []Element {
	var out []Element
	for _, n := range p.nodes {
		if n.hasClass(class) {
			out = append(out, n)
		}
	}
	return out
}

// Node はテスト・ターミナル用にノード実体を返す。存在しない場合はnil。
func (p *Page) Node(id string) *Node {
	return p.byID[id]
}

// Render は表示状態のノードをプレーンテキストでwriterに書き出す。
// 非表示ノードと内容が空のノードはスキップする。
func (p *Page) Render(w io.Writer) {
	for _, n := range p.nodes {
		if !n.Visible() {
			continue
		}
		s := n.displayString()
		if s == "" {
			continue
		}
		if href := n.Href(); href != "" {
			fmt.Fprintf(w, "%s (%s)\n", s, href)
		} else {
			fmt.Fprintln(w, s)
		}
	}
}

// compile-time interface checks
var (
	_ Element  = (*Node)(nil)
	_ Document = (*Page)(nil)
)
