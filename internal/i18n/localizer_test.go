package i18n

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/storage"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func newTestLocalizer(t *testing.T) (*Localizer, *storage.MemoryStore) {
	t.Helper()
	var buf bytes.Buffer
	store := storage.NewMemoryStore()
	return NewLocalizer(store, LocaleZH, newTestLogger(&buf)), store
}

func TestValidateCatalog_AllLocalesHaveSameKeys(t *testing.T) {
	if err := ValidateCatalog(); err != nil {
		t.Errorf("カタログのキー集合はロケール間で一致しているべき: %v", err)
	}
}

func TestT_ReturnsConfiguredString(t *testing.T) {
	l, _ := newTestLocalizer(t)

	// 初期ロケールはzh
	if got := l.T("nav_home"); got != "首页" {
		t.Errorf("T(nav_home) = %q, want %q", got, "首页")
	}

	l.SwitchLocale("en")
	if got := l.T("nav_home"); got != "Home" {
		t.Errorf("T(nav_home) = %q, want %q", got, "Home")
	}
	if got := l.T("no_posts"); got != "No posts found." {
		t.Errorf("T(no_posts) = %q, want %q", got, "No posts found.")
	}
}

func TestT_MissingKeyFallsBackToKey(t *testing.T) {
	l, _ := newTestLocalizer(t)

	if got := l.T("nonexistent_key"); got != "nonexistent_key" {
		t.Errorf("未登録キーはキー自身が返されるべき: %q", got)
	}
}

func TestSwitchLocale_PersistsAndUpdatesCurrent(t *testing.T) {
	l, store := newTestLocalizer(t)

	l.SwitchLocale("en")

	if l.CurrentLocale() != LocaleEN {
		t.Errorf("CurrentLocale = %q, want %q", l.CurrentLocale(), LocaleEN)
	}
	v, ok := store.Get("blog_language")
	if !ok || v != "en" {
		t.Errorf("永続ストア = (%q, %v), want (\"en\", true)", v, ok)
	}
}

func TestSwitchLocale_InvalidCodeIsSilentlyIgnored(t *testing.T) {
	l, store := newTestLocalizer(t)

	l.SwitchLocale("fr")
	l.SwitchLocale("")
	l.SwitchLocale("ZH")

	if l.CurrentLocale() != LocaleZH {
		t.Errorf("無効なコードでロケールが変わってはならない: %q", l.CurrentLocale())
	}
	if _, ok := store.Get("blog_language"); ok {
		t.Error("無効なコードで永続ストアが変更されてはならない")
	}
}

func TestNewLocalizer_RestoresStoredLocale(t *testing.T) {
	var buf bytes.Buffer
	store := storage.NewMemoryStore()
	store.Set("blog_language", "en")

	l := NewLocalizer(store, LocaleZH, newTestLogger(&buf))

	if l.CurrentLocale() != LocaleEN {
		t.Errorf("保存済みロケールが復元されるべき: %q", l.CurrentLocale())
	}
}

func TestNewLocalizer_IgnoresCorruptStoredLocale(t *testing.T) {
	var buf bytes.Buffer
	store := storage.NewMemoryStore()
	store.Set("blog_language", "xx")

	l := NewLocalizer(store, LocaleZH, newTestLogger(&buf))

	if l.CurrentLocale() != LocaleZH {
		t.Errorf("不正な保存値はフォールバックに置き換えられるべき: %q", l.CurrentLocale())
	}
}

func TestBind_AppliesTranslationsImmediately(t *testing.T) {
	l, _ := newTestLocalizer(t)

	node := view.NewNode("nav-home-link").WithTranslationKey("nav_home")
	notified := false
	l.Subscribe(func(Locale) { notified = true })

	l.Bind(view.NewPage(node))

	if node.Text() != "首页" {
		t.Errorf("バインド時点で翻訳が適用されるべき: %q", node.Text())
	}
	if notified {
		t.Error("バインドでは購読者に通知しないべき")
	}
}

func TestReapply_SetsTextAndValuePaths(t *testing.T) {
	l, _ := newTestLocalizer(t)

	textNode := view.NewNode("nav-home-link").WithTranslationKey("nav_home")
	submitNode := view.NewNode("search-submit").WithTranslationKey("switch_language").AsSubmitInput()
	plainNode := view.NewNode("plain")

	page := view.NewPage(textNode, submitNode, plainNode)
	l.Bind(page)

	l.Reapply()

	if textNode.Text() != "首页" {
		t.Errorf("テキストパス: Text = %q, want %q", textNode.Text(), "首页")
	}
	if submitNode.Value() != "切换语言" {
		t.Errorf("値パス: Value = %q, want %q", submitNode.Value(), "切换语言")
	}
	if submitNode.Text() != "" {
		t.Errorf("submit型入力はテキストを設定しないべき: %q", submitNode.Text())
	}
	if plainNode.Text() != "" {
		t.Errorf("翻訳キーなしの要素は変更されないべき: %q", plainNode.Text())
	}
}

func TestReapply_NotifiesSubscribersAfterDOMUpdate(t *testing.T) {
	l, _ := newTestLocalizer(t)

	node := view.NewNode("nav-home-link").WithTranslationKey("nav_home")
	page := view.NewPage(node)
	l.Bind(page)

	var notified []Locale
	var textAtNotify string
	l.Subscribe(func(locale Locale) {
		notified = append(notified, locale)
		textAtNotify = node.Text()
	})

	l.SwitchLocale("en")

	if len(notified) != 1 || notified[0] != LocaleEN {
		t.Fatalf("通知 = %v, want [en]", notified)
	}
	// 通知時点でドキュメントには適用済みであること
	if textAtNotify != "Home" {
		t.Errorf("通知時点の要素テキスト = %q, want %q", textAtNotify, "Home")
	}
}

func TestSubscribe_CancelStopsNotifications(t *testing.T) {
	l, _ := newTestLocalizer(t)

	count := 0
	cancel := l.Subscribe(func(Locale) { count++ })

	l.SwitchLocale("en")
	cancel()
	l.SwitchLocale("zh")

	if count != 1 {
		t.Errorf("解除後は通知されないべき: count = %d, want 1", count)
	}
}

func TestDetect_EnvironmentLanguage(t *testing.T) {
	cases := []struct {
		envLang string
		want    Locale
	}{
		{"en_US.UTF-8", LocaleEN},
		{"en", LocaleEN},
		{"zh_CN.UTF-8", LocaleZH},
		{"zh-TW", LocaleZH},
		{"ja_JP.UTF-8", LocaleZH}, // サポート外はフォールバック
		{"", LocaleZH},
		{"C", LocaleZH},
	}

	for _, tc := range cases {
		if got := Detect(tc.envLang, LocaleZH); got != tc.want {
			t.Errorf("Detect(%q) = %q, want %q", tc.envLang, got, tc.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("zh") || !IsSupported("en") {
		t.Error("zh と en はサポート対象であるべき")
	}
	if IsSupported("fr") || IsSupported("") {
		t.Error("fr と空文字列はサポート外であるべき")
	}
}
