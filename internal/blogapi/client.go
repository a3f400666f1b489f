// Package blogapi はバックエンドのブログAPIを呼び出すHTTPクライアントを提供する。
// エンドポイントは /api/users/me, /api/posts, /api/posts/{id} の3つで、
// いずれも保存済みのBearerトークンがあれば付与する（匿名アクセスも許可される）。
package blogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/metrics"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/model"
)

// userAgent はバックエンドAPIへのリクエストに付与するUser-Agent。
const userAgent = "BlogFront/1.0"

// maxResponseSize はAPIレスポンスの最大読み込みサイズ（5MB）。
const maxResponseSize = 5 * 1024 * 1024

// ClientConfig はClientの設定を保持する。
type ClientConfig struct {
	// BaseURL はバックエンドAPIのオリジン（例: http://localhost:8000）。
	BaseURL string
	// RatePerMinute はAPIリクエストのレート上限（req/min）。0以下で無制限。
	RatePerMinute int
	// RateBurst はバーストサイズ。
	RateBurst int
}

// Client はブログバックエンドAPIのクライアント。
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	limiter    *rate.Limiter
	recorder   metrics.Recorder
}

// NewClient はClientの新しいインスタンスを生成する。
// recorderがnilの場合はメトリクスを記録しない。
func NewClient(httpClient *http.Client, logger *slog.Logger, recorder metrics.Recorder, cfg ClientConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		// req/min -> req/sec に変換する
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), burst)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
		limiter:    limiter,
		recorder:   recorder,
	}
}

// FetchPosts は記事一覧を取得する。
// GET /api/posts。返却順はバックエンドの順序を保持する（クライアント側でソートしない）。
func (c *Client) FetchPosts(ctx context.Context, token string) ([]model.Post, error) {
	body, err := c.get(ctx, "/api/posts", token)
	if err != nil {
		return nil, err
	}

	var posts []model.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		c.logger.Error("記事一覧レスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewParseFailedError(err)
	}

	return posts, nil
}

// FetchPost は記事を1件取得する。
// GET /api/posts/{id}。記事が存在しない場合はmodel.ErrPostNotFoundを返す。
func (c *Client) FetchPost(ctx context.Context, token string, postID int) (*model.Post, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/posts/%d", postID), token)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, model.NewPostNotFoundError(strconv.Itoa(postID))
		}
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal(body, &post); err != nil {
		c.logger.Error("記事レスポンスのパースに失敗しました",
			slog.Int("post_id", postID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewParseFailedError(err)
	}

	return &post, nil
}

// FetchCurrentUser は現在のユーザープロフィールを取得する。
// GET /api/users/me。トークンが無効・期限切れの場合はmodel.ErrUnauthorizedを返す。
func (c *Client) FetchCurrentUser(ctx context.Context, token string) (*model.User, error) {
	body, err := c.get(ctx, "/api/users/me", token)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(body, &user); err != nil {
		c.logger.Error("ユーザープロフィールのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewParseFailedError(err)
	}

	return &user, nil
}

// get はGETリクエストを実行し、成功時のレスポンスボディを返す。
// HTTP 401はmodel.ErrUnauthorized、404はmodel.ErrPostNotFoundに変換する。
// その他の非2xxステータスは汎用エラーとして返す。
func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	// レートリミッター（クライアント側のリクエスト抑制）
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.recorder != nil {
		c.recorder.RecordAPILatency(time.Since(start))
	}
	if err != nil {
		c.logger.Error("バックエンドAPIの呼び出しに失敗しました",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if c.recorder != nil {
		c.recorder.RecordAPIStatus(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, model.NewUnauthorizedError()
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", path, model.ErrPostNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Error("バックエンドAPIがエラーステータスを返しました",
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewFetchFailedError(
			fmt.Sprintf("ステータス %d (%s)", resp.StatusCode, path), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return body, nil
}
