package i18n

import (
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/storage"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// storageKey はロケールを永続化するストアのキー。
// ブラウザ版のlocalStorageキーと同じ名前を使用する。
const storageKey = "blog_language"

// Localizer はロケール状態を保持する明示的なコンテキストオブジェクト。
// パッケージレベルの可変状態を持たないため、複数のLocalizerが独立に動作できる。
type Localizer struct {
	mu       sync.Mutex
	store    storage.Store
	logger   *slog.Logger
	current  Locale
	doc      view.Document
	nextID   int
	handlers map[int]func(Locale)
}

// NewLocalizer はLocalizerを生成する。
// ストアに保存済みのロケールがあればそれを、なければfallbackを初期値とする。
func NewLocalizer(store storage.Store, fallback Locale, logger *slog.Logger) *Localizer {
	current := fallback
	if stored, ok := store.Get(storageKey); ok && IsSupported(stored) {
		current = Locale(stored)
	}

	return &Localizer{
		store:    store,
		logger:   logger,
		current:  current,
		handlers: make(map[int]func(Locale)),
	}
}

// Bind は翻訳再適用の対象となるドキュメントを設定し、
// 現在ロケールの翻訳を直ちに適用する。購読者への通知は行わない。
// ドキュメント未設定の状態ではReapplyは通知のみを行う。
func (l *Localizer) Bind(doc view.Document) {
	l.mu.Lock()
	l.doc = doc
	l.mu.Unlock()
	l.apply(doc)
}

// apply はドキュメントの全翻訳対象要素に現在ロケールのテキストを適用する。
// submit型入力要素には値設定パス、それ以外にはテキスト設定パスを使う。
func (l *Localizer) apply(doc view.Document) {
	if doc == nil {
		return
	}
	for _, elem := range doc.Translatable() {
		key := elem.TranslationKey()
		if key == "" {
			continue
		}
		if elem.SubmitInput() {
			elem.SetValue(l.T(key))
		} else {
			elem.SetText(l.T(key))
		}
	}
}

// T はキーに対応する現在ロケールの表示文字列を返す。
// キーが見つからない場合はキー自身をそのまま返す。翻訳漏れを
// 画面上で発見できるようにするための意図的なフォールバックで、失敗しない。
func (l *Localizer) T(key string) string {
	l.mu.Lock()
	locale := l.current
	l.mu.Unlock()

	if text, ok := translations[locale][key]; ok {
		return text
	}
	return key
}

// CurrentLocale は現在のロケールを返す。
func (l *Localizer) CurrentLocale() Locale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// SwitchLocale はロケールを切り替える。
// サポート外のコードは無視される（エラーは表面化しない）。
// 切り替え成功時はロケールを永続化し、翻訳の再適用と変更通知を行う。
func (l *Localizer) SwitchLocale(code string) {
	if !IsSupported(code) {
		l.logger.Debug("サポート外のロケールコードを無視します",
			slog.String("code", code),
		)
		return
	}

	l.mu.Lock()
	l.current = Locale(code)
	l.mu.Unlock()

	if err := l.store.Set(storageKey, code); err != nil {
		l.logger.Error("ロケールの永続化に失敗しました",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
	}

	l.Reapply()
}

// Reapply はバインド済みドキュメントの全翻訳対象要素に現在ロケールの
// テキストを適用し、その後でロケール変更を購読者へ同期通知する。
func (l *Localizer) Reapply() {
	l.mu.Lock()
	doc := l.doc
	locale := l.current
	handlers := make([]func(Locale), 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.Unlock()

	l.apply(doc)

	// ドキュメント更新後に通知する。購読者は翻訳済みの状態を前提にできる。
	for _, h := range handlers {
		h(locale)
	}
}

// Subscribe はロケール変更の購読を登録し、解除関数を返す。
// 通知はReapplyの中から同期的に配送される。
func (l *Localizer) Subscribe(fn func(Locale)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.handlers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.handlers, id)
	}
}

// supportedTags はDetectで使用する言語タグ。supportedLocalesと同順。
var supportedTags = []language.Tag{
	language.Chinese,
	language.English,
}

var localeMatcher = language.NewMatcher(supportedTags)

// Detect は環境の言語設定（LANG等の値）からサポートロケールを推測する。
// 解決できない場合はfallbackを返す。
func Detect(envLang string, fallback Locale) Locale {
	if envLang == "" {
		return fallback
	}

	// "ja_JP.UTF-8" のような形式からタグ部分を取り出す
	tag, err := language.Parse(normalizeLang(envLang))
	if err != nil {
		return fallback
	}

	_, index, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return fallback
	}
	return supportedLocales[index]
}

// normalizeLang はPOSIXロケール形式をBCP 47に近い形に整形する。
func normalizeLang(envLang string) string {
	out := make([]rune, 0, len(envLang))
	for _, r := range envLang {
		if r == '.' || r == '@' {
			break
		}
		if r == '_' {
			out = append(out, '-')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
