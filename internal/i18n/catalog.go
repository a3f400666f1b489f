// Package i18n は2言語（中国語・英語）の静的翻訳カタログと、
// ドキュメントへの翻訳再適用・言語切り替え通知を提供する。
package i18n

import (
	"fmt"
	"sort"
)

// Locale はサポートするロケールコードを表す。
type Locale string

const (
	// LocaleZH は中国語ロケール。
	LocaleZH Locale = "zh"
	// LocaleEN は英語ロケール。
	LocaleEN Locale = "en"
)

// supportedLocales は認識されるロケールの一覧。
var supportedLocales = []Locale{LocaleZH, LocaleEN}

// IsSupported はロケールコードがサポート対象かどうかを返す。
func IsSupported(code string) bool {
	for _, l := range supportedLocales {
		if Locale(code) == l {
			return true
		}
	}
	return false
}

// translations は(ロケール, キー)から表示文字列への静的マッピング。
// 起動時に完全に構築され、実行時には変更されない。
var translations = map[Locale]map[string]string{
	LocaleZH: {
		// 导航栏
		"nav_home":   "首页",
		"nav_blog":   "博客",
		"nav_login":  "登录",
		"nav_admin":  "管理",
		"nav_logout": "登出",

		// 页脚
		"footer_description": "一个现代化的博客平台，基于FastAPI和Markdown构建",
		"footer_copyright":   "© 2025 FastAPI Blog. 保留所有权利。",

		// 博客列表页
		"no_posts":            "没有找到文章。",
		"error_loading_posts": "加载文章出错。请稍后再试。",
		"read_more":           "阅读更多",
		"posted_on":           "发布于",

		// 博客详情页
		"loading_post":       "加载文章中...",
		"loading_content":    "加载内容中...",
		"post_not_found":     "文章未找到。",
		"error_loading_post": "加载文章出错。请稍后再试。",
		"back_to_posts":      "返回文章列表",
		"edit_post":          "编辑文章",

		// 语言切换
		"switch_language": "切换语言",
		"language_zh":     "中文",
		"language_en":     "英文",
	},
	LocaleEN: {
		// Navigation
		"nav_home":   "Home",
		"nav_blog":   "Blog",
		"nav_login":  "Login",
		"nav_admin":  "Admin",
		"nav_logout": "Logout",

		// Footer
		"footer_description": "A modern blog platform built with FastAPI and Markdown",
		"footer_copyright":   "© 2025 FastAPI Blog. All rights reserved.",

		// Blog list page
		"no_posts":            "No posts found.",
		"error_loading_posts": "Error loading posts. Please try again later.",
		"read_more":           "Read More",
		"posted_on":           "Posted on",

		// Blog detail page
		"loading_post":       "Loading post...",
		"loading_content":    "Loading content...",
		"post_not_found":     "Post not found.",
		"error_loading_post": "Error loading post. Please try again later.",
		"back_to_posts":      "Back to Posts",
		"edit_post":          "Edit Post",

		// Language switch
		"switch_language": "Switch Language",
		"language_zh":     "Chinese",
		"language_en":     "English",
	},
}

// ValidateCatalog は全ロケール間でキー集合が一致していることを検証する。
// 片方のロケールにしか存在しないキーがあればエラーを返す。
// 不一致があってもルックアップはキー自身へのフォールバックで動作し続けるため、
// 起動時に警告として記録する用途を想定している。
func ValidateCatalog() error {
	union := make(map[string]bool)
	for _, table := range translations {
		for key := range table {
			union[key] = true
		}
	}

	var problems []string
	for key := range union {
		for _, locale := range supportedLocales {
			if _, ok := translations[locale][key]; !ok {
				problems = append(problems, fmt.Sprintf("%s: %s", locale, key))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("翻訳カタログのキーがロケール間で一致していません: %v", problems)
	}
	return nil
}
