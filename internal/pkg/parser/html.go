/*
 * @Description: HTML 转纯文本
 * @Author: 安知鱼
 * @Date: 2025-08-08 16:10:36
 * @LastEditTime: 2026-09-24 10:26:41
 * @LastEditors: 安知鱼
 */
package parser

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/predelnews/predelnews-app/internal/pkg/strutil"
)

// ExcerptLength 自动摘要的最大字符数
const ExcerptLength = 200

var stripTagsPolicy *bluemonday.Policy

func init() {
	stripTagsPolicy = bluemonday.StripTagsPolicy()
	// 块级标签被移除时补一个空格，避免相邻段落的文字粘连
	stripTagsPolicy.AddSpaceWhenStrippingTag(true)
}

// StripHTML 移除所有 HTML 标签，实体保持转义状态
func StripHTML(content string) string {
	return stripTagsPolicy.Sanitize(content)
}

// PlainText 返回 HTML 的纯文本形式：去标签、反转义实体并折叠空白
func PlainText(content string) string {
	if content == "" {
		return ""
	}
	text := html.UnescapeString(StripHTML(content))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt 从正文 HTML 中截取前 maxRunes 个字符作为摘要，maxRunes<=0 时使用 ExcerptLength
func Excerpt(content string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = ExcerptLength
	}
	return strutil.Truncate(PlainText(content), maxRunes)
}
