// Package main はブログフロントエンドCLIのエントリーポイント。
package main

import (
	"fmt"
	"os"

	"github.com/DuoBaoWa/FastAPI-Blog/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
