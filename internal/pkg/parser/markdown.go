/*
 * @Description: 文章正文 Markdown 渲染
 * @Author: 安知鱼
 * @Date: 2025-08-08 15:57:23
 * @LastEditTime: 2026-09-24 10:18:06
 * @LastEditors: 安知鱼
 */
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var articleMarkdown goldmark.Markdown
var articlePolicy *bluemonday.Policy

func init() {
	articleMarkdown = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,         // 表格、删除线、自动链接
			extension.Footnote,    // 引用来源常用脚注
			extension.Typographer, // 引号与破折号美化
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(), // 编辑可嵌入原始 HTML，统一交给 bluemonday 清理
		),
	)

	articlePolicy = bluemonday.UGCPolicy()
	articlePolicy.AllowElements("figure", "figcaption", "table", "thead", "tbody", "tr", "th", "td")
	articlePolicy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	articlePolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("figure", "img", "code", "span")
	articlePolicy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	// 外链统一加 nofollow 并在新窗口打开
	articlePolicy.RequireNoFollowOnLinks(true)
	articlePolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

// MarkdownToHTML 将文章 Markdown 渲染为经过清理的 HTML
func MarkdownToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := articleMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("渲染 Markdown 失败: %w", err)
	}
	return articlePolicy.Sanitize(buf.String()), nil
}

// SanitizeHTML 清理编辑器直接提交的 HTML 正文
func SanitizeHTML(content string) string {
	return articlePolicy.Sanitize(content)
}
