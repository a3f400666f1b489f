package view

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags は終了時に改行を挿入するブロック要素。
var blockTags = map[string]bool{
	"p": true, "div": true, "article": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"table": true, "tr": true,
}

// skipTags は内容を出力しない要素。
var skipTags = map[string]bool{
	"script": true, "style": true,
}

// Flatten はHTMLマークアップをターミナル表示用のプレーンテキストに平坦化する。
// ブロック要素の境界は改行に、brは改行に変換される。
// scriptとstyleの内容は無視される。
func Flatten(markup string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return collapseBlankLines(b.String())

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(tokenizer.Text())
			b.WriteString(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			tagName := string(tn)
			if skipTags[tagName] && tt == html.StartTagToken {
				skipDepth++
				continue
			}
			if tagName == "br" {
				b.WriteString("\n")
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tagName := string(tn)
			if skipTags[tagName] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if blockTags[tagName] {
				b.WriteString("\n")
			}
		}
	}
}

// collapseBlankLines は連続する空白行を1つにまとめ、前後の空白を除去する。
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
