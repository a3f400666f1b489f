// Package app はアプリケーションの初期化・依存関係のワイヤリング・
// サブコマンドの実行を担当する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/blogapi"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/config"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/i18n"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/logger"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/metrics"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/page"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/security"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/session"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/storage"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで実行する。
// logWはログ出力先、outはレンダリング結果の出力先。argsにはos.Args[1:]を渡す。
func Run(logW, out io.Writer, args []string) error {
	cmd, rest := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		baseURL := os.Getenv("API_BASE_URL")
		if baseURL == "" {
			return fmt.Errorf("API_BASE_URL is not set")
		}
		return runHealthcheck(baseURL)
	}

	cfg, err := Init(logW)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	env, err := buildEnv(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}

	switch cmd {
	case CommandPosts:
		return runPosts(env, out)
	case CommandPost:
		return runPost(env, out, rest)
	case CommandLang:
		return runLang(env, out, rest)
	case CommandLogout:
		return runLogout(env, out)
	default:
		return runBrowse(env, os.Stdin, out)
	}
}

// appEnv はワイヤリング済みの依存関係を保持する。
type appEnv struct {
	cfg      *config.Config
	store    storage.Store
	sess     *session.Manager
	loc      *i18n.Localizer
	client   *blogapi.Client
	registry *prometheus.Registry
	recorder metrics.Recorder
}

// buildEnv は設定から全依存関係をワイヤリングする。
func buildEnv(cfg *config.Config) (*appEnv, error) {
	// 1. 状態ストア（ブラウザのlocalStorageに相当）
	store, err := storage.NewFileStore(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	// 2. ローカライザ: 保存済みロケールがなければ環境変数LANGから推定する
	if err := i18n.ValidateCatalog(); err != nil {
		// キー不一致があってもキー自身へのフォールバックで動作するため警告に留める
		slog.Warn("translation catalog validation failed", slog.String("error", err.Error()))
	}
	fallback := i18n.Detect(os.Getenv("LANG"), i18n.Locale(cfg.DefaultLanguage))
	loc := i18n.NewLocalizer(store, fallback, slog.Default())

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. バックエンドAPIクライアント
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	if cfg.APISSRFGuard {
		guard := security.NewSSRFGuard()
		if err := guard.ValidateURL(cfg.APIBaseURL); err != nil {
			return nil, fmt.Errorf("unsafe API base URL: %w", err)
		}
		httpClient = guard.NewSafeClient(cfg.FetchTimeout)
	}
	client := blogapi.NewClient(httpClient, slog.Default(), collector, blogapi.ClientConfig{
		BaseURL:       cfg.APIBaseURL,
		RatePerMinute: cfg.APIRateLimit,
		RateBurst:     cfg.APIRateBurst,
	})

	return &appEnv{
		cfg:      cfg,
		store:    store,
		sess:     session.NewManager(store),
		loc:      loc,
		client:   client,
		registry: registry,
		recorder: collector,
	}, nil
}

// terminalNavigator はターミナル環境でのページ遷移を表す。
// 実際の遷移は行わず、遷移先を出力する。
type terminalNavigator struct {
	out io.Writer
}

func (n *terminalNavigator) Redirect(path string) {
	fmt.Fprintf(n.out, "-> %s\n", path)
}

// newController は指定ドキュメントに対するページコントローラーを生成する。
func (env *appEnv) newController(doc view.Document, out io.Writer) *page.Controller {
	return page.NewController(page.ControllerDeps{
		Doc:       doc,
		API:       env.client,
		Session:   env.sess,
		Localizer: env.loc,
		Sanitizer: security.NewContentSanitizer(),
		Navigator: &terminalNavigator{out: out},
		Recorder:  env.recorder,
		Logger:    slog.Default(),
		HomePath:  env.cfg.HomePath,
	})
}

// runPosts は記事一覧をレンダリングして終了する。
func runPosts(env *appEnv, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), env.cfg.FetchTimeout*2)
	defer cancel()

	doc := view.NewListPage()
	env.loc.Bind(doc)
	ctrl := env.newController(doc, out)
	defer ctrl.Close()

	ctrl.Init(ctx)
	ctrl.RenderPostList(ctx)
	doc.Render(out)
	return nil
}

// runPost は指定IDの記事詳細をレンダリングして終了する。
func runPost(env *appEnv, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: post <id>")
	}
	postID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid post id %q: %w", args[0], err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.cfg.FetchTimeout*2)
	defer cancel()

	doc := view.NewDetailPage()
	env.loc.Bind(doc)
	ctrl := env.newController(doc, out)
	defer ctrl.Close()

	ctrl.Init(ctx)
	ctrl.RenderPostDetail(ctx, postID)
	doc.Render(out)
	return nil
}

// runLang は引数なしで現在の表示言語を出力し、
// 引数ありで表示言語を切り替える。サポート外のコードは無視される。
func runLang(env *appEnv, out io.Writer, args []string) error {
	if len(args) > 0 {
		env.loc.SwitchLocale(args[0])
	}
	fmt.Fprintln(out, env.loc.CurrentLocale())
	return nil
}

// runLogout は保存済みクレデンシャルを削除する。
func runLogout(env *appEnv, out io.Writer) error {
	doc := view.NewListPage()
	env.loc.Bind(doc)
	ctrl := env.newController(doc, out)
	defer ctrl.Close()

	ctrl.Logout()
	return nil
}

// runHealthcheck はバックエンドAPIの疎通確認を実行する。
// 記事一覧エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(baseURL string) error {
	url := baseURL + "/api/posts"
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
