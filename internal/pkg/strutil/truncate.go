/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-08-08 16:10:53
 * @LastEditTime: 2026-09-24 10:22:15
 * @LastEditors: 安知鱼
 */
package strutil

import (
	"strings"
	"unicode/utf8"
)

// Truncate 按字符数截断 UTF-8 字符串，不会切开多字节字符。
// 截断后去掉结尾空白，不追加省略号。
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:maxLength]), isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
