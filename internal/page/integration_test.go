package page

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/blogapi"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/i18n"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/security"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/session"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/storage"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// newStubBackend はバックエンドAPIを模したテストサーバーを返す。
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/api/posts", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// FastAPIバックエンドはタイムゾーンなしのISO-8601を返す
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":         1,
				"title":      "第一篇文章",
				"content":    "<p>正文内容</p>",
				"published":  true,
				"created_at": "2025-03-15T10:00:00.123456",
				"updated_at": "2025-03-15T10:00:00.123456",
				"author_id":  1,
			},
		})
	})
	r.Get("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         1,
			"title":      "第一篇文章",
			"content":    `<p>正文</p><script>alert(1)</script><a href="https://example.com">链接</a>`,
			"published":  true,
			"created_at": "2025-03-15T10:00:00",
			"updated_at": "2025-03-15T10:00:00",
			"author_id":  1,
		})
	})
	r.Get("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       1,
			"username": "admin",
			"email":    "admin@example.com",
			"is_active": true,
			"is_admin":  true,
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newIntegrationController(t *testing.T, server *httptest.Server, doc *view.Page) (*Controller, *storage.MemoryStore) {
	t.Helper()
	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	store := storage.NewMemoryStore()
	loc := i18n.NewLocalizer(store, i18n.LocaleZH, logger)
	loc.Bind(doc)
	client := blogapi.NewClient(server.Client(), logger, nil, blogapi.ClientConfig{
		BaseURL: server.URL,
	})
	ctrl := NewController(ControllerDeps{
		Doc:       doc,
		API:       client,
		Session:   session.NewManager(store),
		Localizer: loc,
		Sanitizer: security.NewContentSanitizer(),
		Navigator: &stubNavigator{},
		Logger:    logger,
	})
	return ctrl, store
}

func TestIntegration_ListPage(t *testing.T) {
	server := newStubBackend(t)
	doc := view.NewListPage()
	ctrl, _ := newIntegrationController(t, server, doc)

	ctrl.Init(context.Background())
	ctrl.RenderPostList(context.Background())

	got := doc.Node(view.IDPostsContainer).HTML()
	if !strings.Contains(got, `<a href="/blog/1">第一篇文章</a>`) {
		t.Errorf("一覧にタイトルリンクが含まれるべきです: %s", got)
	}
	if !strings.Contains(got, "发布于 2025年3月15日") {
		t.Errorf("一覧に日付が含まれるべきです: %s", got)
	}
}

func TestIntegration_DetailPage_SanitizesContent(t *testing.T) {
	server := newStubBackend(t)
	doc := view.NewDetailPage()
	ctrl, store := newIntegrationController(t, server, doc)
	if err := store.Set("token", "admin-token"); err != nil {
		t.Fatalf("トークンの保存に失敗しました: %v", err)
	}

	ctrl.Init(context.Background())
	ctrl.RenderPostDetail(context.Background(), 1)

	content := doc.Node(view.IDPostContent).HTML()
	if strings.Contains(content, "<script>") {
		t.Errorf("本文からscriptタグが除去されるべきです: %s", content)
	}
	if !strings.Contains(content, "<p>正文</p>") {
		t.Errorf("本文の段落は保持されるべきです: %s", content)
	}
	if got := doc.Node(view.IDPostTitle).Text(); got != "第一篇文章" {
		t.Errorf("タイトルが期待と異なります: %s", got)
	}
	if !doc.Node(view.IDEditPostBtn).Visible() {
		t.Error("管理者には編集ボタンが表示されるべきです")
	}
}

func TestIntegration_DetailPage_NotFound(t *testing.T) {
	server := newStubBackend(t)
	doc := view.NewDetailPage()
	ctrl, _ := newIntegrationController(t, server, doc)

	ctrl.RenderPostDetail(context.Background(), 999)

	got := doc.Node(view.IDPostContainer).HTML()
	if got != "<p>文章未找到。</p>" {
		t.Errorf("未検出メッセージが期待と異なります: %s", got)
	}
}

func TestIntegration_ExpiredTokenClearedOnInit(t *testing.T) {
	server := newStubBackend(t)
	doc := view.NewListPage()
	ctrl, store := newIntegrationController(t, server, doc)
	if err := store.Set("token", "expired-token"); err != nil {
		t.Fatalf("トークンの保存に失敗しました: %v", err)
	}

	ctrl.Init(context.Background())

	if _, ok := store.Get("token"); ok {
		t.Error("無効なトークンは初期化時に削除されるべきです")
	}
	if !doc.Node(view.IDLoginLink).Visible() {
		t.Error("トークン無効時はログインリンクが表示されるべきです")
	}
}
