// Package page はページコントローラーを提供する。
// ページロード時の初期化（認証状態に応じたナビゲーション切り替え、
// ログアウト処理の接続、言語変更の購読）と、記事一覧・記事詳細の
// フェッチ＆レンダリングを担当する。
package page

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/i18n"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/metrics"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/model"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/session"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// BackendAPI はコントローラーが必要とするバックエンドAPIのインターフェース。
type BackendAPI interface {
	// FetchPosts は記事一覧を取得する。tokenが空の場合は匿名アクセス。
	FetchPosts(ctx context.Context, token string) ([]model.Post, error)
	// FetchPost は記事を1件取得する。存在しない場合はmodel.ErrPostNotFound。
	FetchPost(ctx context.Context, token string, postID int) (*model.Post, error)
	// FetchCurrentUser は現在のユーザープロフィールを取得する。
	// トークンが無効な場合はmodel.ErrUnauthorized。
	FetchCurrentUser(ctx context.Context, token string) (*model.User, error)
}

// Navigator はページ遷移のインターフェース。
// ブラウザ環境でのwindow.location変更に相当する。
type Navigator interface {
	// Redirect は指定パスへ遷移する。
	Redirect(path string)
}

// ContentSanitizer は記事HTMLのサニタイズインターフェース。
type ContentSanitizer interface {
	Sanitize(rawHTML string) string
}

// ControllerDeps はControllerの依存関係を保持する。
type ControllerDeps struct {
	Doc       view.Document
	API       BackendAPI
	Session   *session.Manager
	Localizer *i18n.Localizer
	Sanitizer ContentSanitizer
	Navigator Navigator
	Recorder  metrics.Recorder
	Logger    *slog.Logger

	// HomePath はログアウト後の遷移先。空の場合は "/"。
	HomePath string
}

// Controller はページコントローラー。
// 1ページにつき1インスタンスを生成し、Initで初期化する。
type Controller struct {
	doc       view.Document
	api       BackendAPI
	session   *session.Manager
	loc       *i18n.Localizer
	sanitizer ContentSanitizer
	nav       Navigator
	recorder  metrics.Recorder
	logger    *slog.Logger
	homePath  string

	// レンダリング種別ごとのシーケンストークン。
	// 古いフェッチの結果が新しい結果を上書きしないためのガード。
	listSeq   atomic.Uint64
	detailSeq atomic.Uint64

	unsubscribe func()
}

// NewController はControllerを生成する。
func NewController(deps ControllerDeps) *Controller {
	homePath := deps.HomePath
	if homePath == "" {
		homePath = "/"
	}
	return &Controller{
		doc:       deps.Doc,
		api:       deps.API,
		session:   deps.Session,
		loc:       deps.Localizer,
		sanitizer: deps.Sanitizer,
		nav:       deps.Navigator,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		homePath:  homePath,
	}
}

// Init はページロード時の初期化を行う。
//  1. 保存済みクレデンシャルの有無に応じてナビゲーションを切り替える
//  2. ログアウトリンクにハンドラを接続する
//  3. 言語変更を購読し、現在のページに応じた再レンダリングを接続する
//
// ナビゲーション切り替え中の認証以外の失敗ではナビゲーションを変更しない。
func (c *Controller) Init(ctx context.Context) {
	c.initNav(ctx)

	// ログアウト処理の接続
	if logout, ok := c.doc.ElementByID(view.IDLogoutLink); ok {
		logout.OnActivate(func() {
			c.Logout()
		})
	}

	// 言語変更の購読: レンダリング済みテキストにはロケール文字列が
	// 埋め込まれているため、現在のページに対応するルーチンを再実行する
	c.unsubscribe = c.loc.Subscribe(func(locale i18n.Locale) {
		if _, ok := c.doc.ElementByID(view.IDPostsContainer); ok {
			c.RenderPostList(ctx)
		}
		if title, ok := c.doc.ElementByID(view.IDPostTitle); ok {
			if raw, ok := title.Data(view.DataPostID); ok {
				postID, err := strconv.Atoi(raw)
				if err != nil {
					c.logger.Error("保持されていた記事IDの解析に失敗しました",
						slog.String("post_id", raw),
						slog.String("error", err.Error()),
					)
					return
				}
				c.RenderPostDetail(ctx, postID)
			}
		}
	})
}

// Close は言語変更の購読を解除する。
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// initNav は認証状態に応じてナビゲーションの表示を切り替える。
func (c *Controller) initNav(ctx context.Context) {
	token, ok := c.session.Token()
	if !ok {
		// 未ログイン: ログインリンクのみ表示
		c.setNavVisibility(true, false, false)
		return
	}

	user, err := c.api.FetchCurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			// トークンが無効または期限切れ: クレデンシャルを破棄して未ログイン状態へ
			if clearErr := c.session.Clear(); clearErr != nil {
				c.logger.Error("クレデンシャルの削除に失敗しました",
					slog.String("error", clearErr.Error()),
				)
			}
			c.setNavVisibility(true, false, false)
			return
		}
		// その他の失敗: ログに記録し、ナビゲーションは変更しない（リトライなし）
		c.logger.Error("ユーザープロフィールの取得に失敗しました",
			slog.String("error", err.Error()),
		)
		if c.recorder != nil {
			c.recorder.RecordRenderFailure(metrics.RenderKindNav)
		}
		return
	}

	c.setNavVisibility(false, user.IsAdmin, true)
	if c.recorder != nil {
		c.recorder.RecordRenderSuccess(metrics.RenderKindNav)
	}
}

// setNavVisibility はログイン・管理・ログアウトリンクの表示を設定する。
// 要素がページに存在しない場合はスキップする。
func (c *Controller) setNavVisibility(login, admin, logout bool) {
	if e, ok := c.doc.ElementByID(view.IDLoginLink); ok {
		e.SetVisible(login)
	}
	if e, ok := c.doc.ElementByID(view.IDAdminLink); ok {
		e.SetVisible(admin)
	}
	if e, ok := c.doc.ElementByID(view.IDLogoutLink); ok {
		e.SetVisible(logout)
	}
}

// Logout はログアウト処理を実行する。
// 保存済みクレデンシャルを削除し、事前の状態に関わらずホームパスへ遷移する。
func (c *Controller) Logout() {
	if err := c.session.Clear(); err != nil {
		c.logger.Error("ログアウト時のクレデンシャル削除に失敗しました",
			slog.String("error", err.Error()),
		)
	}
	c.logger.Info("ログアウトしました")
	c.nav.Redirect(c.homePath)
}

// newRenderID はログ相関用のレンダリングサイクルIDを生成する。
func newRenderID() string {
	return uuid.NewString()
}
