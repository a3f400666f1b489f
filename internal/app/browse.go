package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/metrics"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/page"
	"github.com/DuoBaoWa/FastAPI-Blog/internal/view"
)

// runBrowse は対話モードで起動する。
// 記事一覧を表示した後、標準入力からコマンドを受け付ける。
// METRICS_PORTが設定されている場合はメトリクスエンドポイントも起動し、
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runBrowse(env *appEnv, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// メトリクスエンドポイントの起動（設定時のみ）
	var metricsServer *http.Server
	if env.cfg.MetricsPort != "" {
		metricsServer = &http.Server{
			Addr:         ":" + env.cfg.MetricsPort,
			Handler:      metrics.SetupMetricsRoute(env.registry),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			slog.Info("metrics endpoint starting",
				slog.String("addr", metricsServer.Addr),
			)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics listen error", slog.String("error", err.Error()))
			}
		}()
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			slog.Info("shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	browseLoop(ctx, env, in, out)

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics endpoint shutdown failed: %w", err)
		}
	}

	slog.Info("stopped gracefully")
	return nil
}

// browseLoop は対話モードのメインループ。
// 入力のEOF・quitコマンド・コンテキストのキャンセルで終了する。
func browseLoop(ctx context.Context, env *appEnv, in io.Reader, out io.Writer) {
	// 初期表示は記事一覧
	doc, ctrl := openListPage(ctx, env, out)
	defer func() { ctrl.Close() }()

	fmt.Fprint(out, "> ")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Fprint(out, "> ")
			continue
		}

		switch fields[0] {
		case "posts", "list":
			ctrl.Close()
			doc, ctrl = openListPage(ctx, env, out)

		case "post":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: post <id>")
				break
			}
			postID, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintf(out, "invalid post id: %s\n", fields[1])
				break
			}
			ctrl.Close()
			doc, ctrl = openDetailPage(ctx, env, out, postID)

		case "lang":
			if len(fields) > 1 {
				env.loc.SwitchLocale(fields[1])
				// 言語切り替えの再レンダリング結果を表示し直す
				doc.Render(out)
			}
			fmt.Fprintln(out, env.loc.CurrentLocale())

		case "logout":
			ctrl.Logout()

		case "quit", "exit":
			return

		default:
			fmt.Fprintln(out, "commands: posts | post <id> | lang [zh|en] | logout | quit")
		}

		fmt.Fprint(out, "> ")
	}
}

// openListPage は記事一覧ページを構築してレンダリングする。
func openListPage(ctx context.Context, env *appEnv, out io.Writer) (*view.Page, *page.Controller) {
	doc := view.NewListPage()
	env.loc.Bind(doc)
	ctrl := env.newController(doc, out)
	ctrl.Init(ctx)
	ctrl.RenderPostList(ctx)
	doc.Render(out)
	return doc, ctrl
}

// openDetailPage は記事詳細ページを構築してレンダリングする。
func openDetailPage(ctx context.Context, env *appEnv, out io.Writer, postID int) (*view.Page, *page.Controller) {
	doc := view.NewDetailPage()
	env.loc.Bind(doc)
	ctrl := env.newController(doc, out)
	ctrl.Init(ctx)
	ctrl.RenderPostDetail(ctx, postID)
	doc.Render(out)
	return doc, ctrl
}
