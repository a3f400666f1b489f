package page

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/i18n"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/metrics"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/model"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// excerptRunes は記事一覧の抜粋に表示する最大文字数。
const excerptRunes = 150

// RenderPostList は記事一覧を取得し、posts-containerへレンダリングする。
// コンテナが存在しないページでは何もしない。
// フェッチ完了までに新しい一覧レンダリングが開始された場合、結果は破棄される。
func (c *Controller) RenderPostList(ctx context.Context) {
	container, ok := c.doc.ElementByID(view.IDPostsContainer)
	if !ok {
		return
	}

	seq := c.listSeq.Add(1)
	renderID := newRenderID()
	token, _ := c.session.Token()

	posts, err := c.api.FetchPosts(ctx, token)
	if c.listSeq.Load() != seq {
		c.logger.Debug("古い一覧レンダリングを破棄します",
			slog.String("render_id", renderID),
		)
		return
	}
	if err != nil {
		c.logger.Error("記事一覧の取得に失敗しました",
			slog.String("render_id", renderID),
			slog.String("error", err.Error()),
		)
		if c.recorder != nil {
			c.recorder.RecordRenderFailure(metrics.RenderKindList)
		}
		container.SetHTML("<p>" + html.EscapeString(c.loc.T("error_loading_posts")) + "</p>")
		return
	}

	if len(posts) == 0 {
		container.SetHTML("<p>" + html.EscapeString(c.loc.T("no_posts")) + "</p>")
	} else {
		var b strings.Builder
		for _, post := range posts {
			b.WriteString(c.buildPostCard(post))
		}
		container.SetHTML(b.String())
	}

	c.logger.Info("記事一覧をレンダリングしました",
		slog.String("render_id", renderID),
		slog.Int("count", len(posts)),
	)
	if c.recorder != nil {
		c.recorder.RecordRenderSuccess(metrics.RenderKindList)
	}
}

// buildPostCard は一覧の1記事分のカードHTMLを組み立てる。
// タイトルはエスケープし、抜粋は記事本文の冒頭をそのまま使う。
func (c *Controller) buildPostCard(post model.Post) string {
	detailPath := fmt.Sprintf("/blog/%d", post.ID)
	var b strings.Builder
	b.WriteString(`<article class="post-card">`)
	b.WriteString(`<h2><a href="` + detailPath + `">` + html.EscapeString(post.Title) + `</a></h2>`)
	b.WriteString(`<p class="post-meta">` + html.EscapeString(c.loc.T("posted_on")) + ` ` + c.formatDate(post.CreatedAt.Time) + `</p>`)
	b.WriteString(`<div class="post-excerpt">` + excerpt(post.Content) + `</div>`)
	b.WriteString(`<a href="` + detailPath + `" class="read-more">` + html.EscapeString(c.loc.T("read_more")) + `</a>`)
	b.WriteString(`</article>`)
	return b.String()
}

// excerpt は本文の冒頭150文字に省略記号を付けて返す。
// 本文が150文字以下でも省略記号は常に付く。
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

// RenderPostDetail は記事詳細を取得し、詳細ページの各要素へレンダリングする。
// 記事が存在しない場合はpost-containerへ未検出メッセージを表示する。
func (c *Controller) RenderPostDetail(ctx context.Context, postID int) {
	seq := c.detailSeq.Add(1)
	renderID := newRenderID()
	token, _ := c.session.Token()

	post, err := c.api.FetchPost(ctx, token, postID)
	if c.detailSeq.Load() != seq {
		c.logger.Debug("古い詳細レンダリングを破棄します",
			slog.String("render_id", renderID),
			slog.Int("post_id", postID),
		)
		return
	}
	if err != nil {
		key := "error_loading_post"
		if errors.Is(err, model.ErrPostNotFound) {
			key = "post_not_found"
		}
		c.logger.Error("記事詳細の取得に失敗しました",
			slog.String("render_id", renderID),
			slog.Int("post_id", postID),
			slog.String("error", err.Error()),
		)
		if c.recorder != nil {
			c.recorder.RecordRenderFailure(metrics.RenderKindDetail)
		}
		if container, ok := c.doc.ElementByID(view.IDPostContainer); ok {
			container.SetHTML("<p>" + html.EscapeString(c.loc.T(key)) + "</p>")
		}
		return
	}

	if title, ok := c.doc.ElementByID(view.IDPostTitle); ok {
		title.SetText(post.Title)
		title.SetData(view.DataPostID, strconv.Itoa(postID))
	}
	// 詳細ページの日付は一覧カードと違いラベルなしの日付のみ
	if date, ok := c.doc.ElementByID(view.IDPostDate); ok {
		date.SetText(c.formatDate(post.CreatedAt.Time))
	}
	if content, ok := c.doc.ElementByID(view.IDPostContent); ok {
		body := post.Content
		if c.sanitizer != nil {
			body = c.sanitizer.Sanitize(body)
		}
		content.SetHTML(body)
	}

	c.renderEditButton(ctx, token, postID)
	c.localizeBackButtons()

	c.logger.Info("記事詳細をレンダリングしました",
		slog.String("render_id", renderID),
		slog.Int("post_id", postID),
	)
	if c.recorder != nil {
		c.recorder.RecordRenderSuccess(metrics.RenderKindDetail)
	}
}

// renderEditButton は管理者の場合のみ編集ボタンを表示する。
// プロフィール取得はベストエフォートであり、失敗は非管理者として扱う。
func (c *Controller) renderEditButton(ctx context.Context, token string, postID int) {
	btn, ok := c.doc.ElementByID(view.IDEditPostBtn)
	if !ok || token == "" {
		return
	}
	user, err := c.api.FetchCurrentUser(ctx, token)
	if err != nil {
		c.logger.Debug("編集ボタン表示判定のプロフィール取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return
	}
	if !user.IsAdmin {
		return
	}
	btn.SetText(c.loc.T("edit_post"))
	btn.SetHref(fmt.Sprintf("/admin/posts/%d/edit", postID))
	btn.SetVisible(true)
}

// localizeBackButtons は「記事一覧へ戻る」ボタンのテキストを
// アイコン付きマークアップで現在のロケールに合わせて設定する。
func (c *Controller) localizeBackButtons() {
	for _, btn := range c.doc.ElementsByClass(view.ClassBackButton) {
		btn.SetHTML(`<span class="btn-icon">←</span> ` + html.EscapeString(c.loc.T("back_to_posts")))
	}
}

// formatDate は現在のロケールに応じた表示形式で日付を整形する。
func (c *Controller) formatDate(t time.Time) string {
	if c.loc.CurrentLocale() == i18n.LocaleZH {
		return t.Format("2006年1月2日")
	}
	return t.Format("January 2, 2006")
}
